package services

import "sync/atomic"

// RuntimeState 持有进程内可变的运行开关，重启后恢复默认（启用）。
type RuntimeState struct {
	disabled atomic.Bool
}

// NewRuntimeState 返回默认启用的状态。
func NewRuntimeState() *RuntimeState {
	return &RuntimeState{}
}

// Enabled 报告 Bot 是否对普通用户开放。
func (s *RuntimeState) Enabled() bool {
	return !s.disabled.Load()
}

// SetEnabled 切换开关。
func (s *RuntimeState) SetEnabled(enabled bool) {
	s.disabled.Store(!enabled)
}
