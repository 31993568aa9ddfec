// Package services 承载 Bot 的业务用例：订阅闸门、内容投递、目录与频道管理、管理员集合与统计。
package services

import "github.com/google/wire"

// ProviderSet 暴露 Service 层构造函数供 Wire 使用。
var ProviderSet = wire.NewSet(
	NewRuntimeState,
	NewAdminService,
	wire.Bind(new(AdminDirectory), new(*AdminService)),
	NewUserService,
	NewSubscriptionGate,
	NewDeliveryService,
	NewCatalogService,
	NewChannelService,
	NewStatsService,
)
