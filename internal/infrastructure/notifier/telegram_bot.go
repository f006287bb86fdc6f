package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/shopspring/decimal"

	"students-erp/internal/domain/entity"
	"students-erp/pkg/contextx"
	"students-erp/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// TelegramBot шлёт уведомления о расчётных событиях в рабочий чат.
type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// PaymentConfirmed уведомляет чат о подтверждённом платеже.
// Ошибка отправки только логируется: уведомление не должно
// ронять денежную операцию.
func (b *TelegramBot) PaymentConfirmed(ctx context.Context, payment entity.Payment, bonus decimal.Decimal) {
	text := fmt.Sprintf(
		"✅ <b>Платёж подтверждён</b>\n\n"+
			"💳 <b>Платёж:</b> #%d\n"+
			"📁 <b>Сделка:</b> #%d\n"+
			"💰 <b>Сумма:</b> %s %s (%s USD)\n"+
			"🎁 <b>Бонус менеджеру:</b> %s USD",
		payment.ID,
		payment.DealID,
		payment.Amount.StringFixed(2),
		payment.CurrencyCode,
		payment.AmountUSD.StringFixed(2),
		bonus.StringFixed(2),
	)

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		logger(ctx).Error("payment notification failed", logx.Error(err))
	}
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
