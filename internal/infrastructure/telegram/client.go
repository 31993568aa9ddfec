// Package telegram wraps the Bot API client with context checks, metrics and
// kratos logging.
package telegram

import (
	"context"
	"fmt"
	"strings"

	loader "github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-animebot/internal/models/vo"

	"github.com/go-kratos/kratos/v2/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel"
)

// Client is the single outbound gateway to the Bot API.
type Client struct {
	api     *tgbotapi.BotAPI
	metrics *clientMetrics
	log     *log.Helper
}

// NewClient authenticates against the Bot API (getMe) and redirects the
// library logger into kratos.
func NewClient(cfg loader.Telegram, logger log.Logger) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authorize bot: %w", err)
	}
	api.Debug = cfg.Debug
	c := NewClientFromAPI(api, logger)
	c.log.Infof("telegram bot authorized: username=%s id=%d", api.Self.UserName, api.Self.ID)
	return c, nil
}

// NewClientFromAPI wraps an already constructed BotAPI.
func NewClientFromAPI(api *tgbotapi.BotAPI, logger log.Logger) *Client {
	helper := log.NewHelper(log.With(logger, "component", "telegram"))
	_ = tgbotapi.SetLogger(botLogger{helper: helper})
	meter := otel.GetMeterProvider().Meter("animebot.telegram")
	return &Client{
		api:     api,
		metrics: newClientMetrics(meter, helper),
		log:     helper,
	}
}

// SelfID returns the bot's own user id.
func (c *Client) SelfID() int64 { return c.api.Self.ID }

// Username returns the bot username without "@".
func (c *Client) Username() string { return c.api.Self.UserName }

// Send delivers a message-producing request.
func (c *Client) Send(ctx context.Context, msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := ctx.Err(); err != nil {
		return tgbotapi.Message{}, err
	}
	sent, err := c.api.Send(msg)
	c.metrics.record(ctx, "send", err)
	return sent, err
}

// Request performs a call whose result is only ok/error (edit, delete, callback answer).
func (c *Client) Request(ctx context.Context, req tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.api.Request(req)
	c.metrics.record(ctx, "request", err)
	return err
}

// CopyMessage copies messageID from fromChatID to chatID without the forward header.
func (c *Client) CopyMessage(ctx context.Context, chatID, fromChatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.api.CopyMessage(tgbotapi.NewCopyMessage(chatID, fromChatID, messageID))
	c.metrics.record(ctx, "copy", err)
	return err
}

// ForwardFromChannel forwards a post of a public channel addressed by @username.
func (c *Client) ForwardFromChannel(ctx context.Context, chatID int64, channelUsername string, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.HasPrefix(channelUsername, "@") {
		channelUsername = "@" + channelUsername
	}
	params := tgbotapi.Params{"from_chat_id": channelUsername}
	params.AddNonZero64("chat_id", chatID)
	params.AddNonZero("message_id", messageID)
	_, err := c.api.MakeRequest("forwardMessage", params)
	c.metrics.record(ctx, "forward", err)
	return err
}

// MemberStatus returns the membership status of userID in chatID
// ("creator", "administrator", "member", "restricted", "left", "kicked").
func (c *Client) MemberStatus(ctx context.Context, chatID, userID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
	c.metrics.record(ctx, "get_chat_member", err)
	if err != nil {
		return "", err
	}
	return member.Status, nil
}

// Chat fetches chat metadata.
func (c *Client) Chat(ctx context.Context, chatID int64) (*vo.ChatInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chat, err := c.api.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: chatID}})
	c.metrics.record(ctx, "get_chat", err)
	if err != nil {
		return nil, err
	}
	return &vo.ChatInfo{ID: chat.ID, Title: chat.Title, Username: chat.UserName}, nil
}

// Updates starts long polling.
func (c *Client) Updates(timeout int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	u.AllowedUpdates = []string{"message", "callback_query", "chat_join_request"}
	return c.api.GetUpdatesChan(u)
}

// StopUpdates stops long polling; the updates channel is closed afterwards.
func (c *Client) StopUpdates() {
	c.api.StopReceivingUpdates()
}

type botLogger struct {
	helper *log.Helper
}

func (l botLogger) Println(v ...interface{}) { l.helper.Debug(v...) }

func (l botLogger) Printf(format string, v ...interface{}) { l.helper.Debugf(format, v...) }
