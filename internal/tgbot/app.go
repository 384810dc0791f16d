package tgbot

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ekiden-club/internal/config"
	"ekiden-club/internal/models"
	"ekiden-club/internal/records"
	"ekiden-club/internal/server"
	"ekiden-club/internal/util"
)

// Store is the read side of the club spreadsheet used by the bot.
type Store interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	PlayerNames(ctx context.Context) (map[string]string, error)
	ListRecords(ctx context.Context) ([]models.Record, error)
	RecordsByPlayer(ctx context.Context, playerID string) ([]models.Record, error)
	FlushCache()
}

type App struct {
	cfg config.Config
	bot *tgbotapi.BotAPI
	st  Store
	cmp records.TimeCompare
}

func New(cfg config.Config, st Store) (*App, error) {
	b, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	b.Debug = false
	return &App{
		cfg: cfg,
		bot: b,
		st:  st,
		cmp: records.CompareByName(cfg.SectionTieBreak),
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := a.bot.GetUpdatesChan(u)
	defer a.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				if err := a.handleMessage(ctx, upd.Message); err != nil {
					log.Printf("handle msg: %v", err)
					_ = a.SendText(upd.Message.Chat.ID, "スプレッドシートとの通信に失敗しました。")
				}
			} else if upd.CallbackQuery != nil {
				if err := a.handleCallback(ctx, upd.CallbackQuery); err != nil {
					log.Printf("handle cb: %v", err)
				}
			}
		}
	}
}

func (a *App) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := a.bot.Send(msg)
	return err
}

func (a *App) isAdmin(tgID int64) bool {
	return a.cfg.AdminTGIDs[tgID]
}

// fromAdmin reports whether m was sent by an admin. Channel posts have no sender.
func (a *App) fromAdmin(m *tgbotapi.Message) bool {
	return m.From != nil && a.isAdmin(m.From.ID)
}

// ---------- Message handling ----------

func (a *App) handleMessage(ctx context.Context, m *tgbotapi.Message) error {
	chatID := m.Chat.ID
	admin := a.fromAdmin(m)
	if !m.IsCommand() {
		return a.SendText(chatID, helpText(admin))
	}
	args := strings.TrimSpace(m.CommandArguments())

	switch m.Command() {
	case "start", "help":
		return a.SendText(chatID, helpText(admin))
	case "players":
		players, err := a.st.ListPlayers(ctx)
		if err != nil {
			return err
		}
		return a.SendText(chatID, playersText(players))
	case "pb":
		return a.showBests(ctx, chatID, args)
	case "races":
		return a.showRaces(ctx, chatID)
	case "section":
		return a.showSection(ctx, chatID, args)
	case "pace":
		f := strings.Fields(args)
		if len(f) != 2 {
			return a.SendText(chatID, "使い方: /pace <タイム> <距離>")
		}
		return a.SendText(chatID, paceText(f[0], f[1]))
	case "flush":
		if !admin {
			return a.SendText(chatID, "権限がありません。")
		}
		a.st.FlushCache()
		return a.SendText(chatID, "✅ キャッシュを削除しました。")
	case "export":
		if !admin {
			return a.SendText(chatID, "権限がありません。")
		}
		return a.SendText(chatID, "📤 CSV出力: "+a.exportURL(args))
	}
	return a.SendText(chatID, helpText(admin))
}

// exportURL builds the tokenized records export link, optionally for one player.
func (a *App) exportURL(playerID string) string {
	base := a.cfg.BasePublicURL
	if base == "" {
		base = "http://localhost" + a.cfg.HTTPAddr
	}
	q := url.Values{}
	q.Set("token", util.HMACSHA256Hex(a.cfg.ExportSecret, server.ExportMessage))
	if playerID != "" {
		q.Set("player", playerID)
	}
	return base + "/export/records.csv?" + q.Encode()
}

func (a *App) showBests(ctx context.Context, chatID int64, playerID string) error {
	if playerID == "" {
		return a.SendText(chatID, "使い方: /pb <選手ID>")
	}
	p, err := a.st.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	if p == nil {
		return a.SendText(chatID, "選手が見つかりません。")
	}
	recs, err := a.st.RecordsByPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	return a.SendText(chatID, bestsText(p.Name, records.SortedBests(records.PersonalBests(recs))))
}

func (a *App) races(ctx context.Context) ([]records.RaceSummary, error) {
	recs, err := a.st.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	names, err := a.st.PlayerNames(ctx)
	if err != nil {
		return nil, err
	}
	return records.GroupByRace(fillNames(recs, names), names), nil
}

func (a *App) showRaces(ctx context.Context, chatID int64) error {
	races, err := a.races(ctx)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, racesText(races))
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for i, r := range races {
		if i == 10 {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d. %s", i+1, r.RaceName), "race:"+strconv.Itoa(i)),
		))
	}
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	_, err = a.bot.Send(msg)
	return err
}

func (a *App) showSection(ctx context.Context, chatID int64, args string) error {
	race, section, ok := parseSectionArgs(args)
	if !ok {
		return a.SendText(chatID, "使い方: /section <大会名> | <区間>")
	}
	recs, err := a.st.ListRecords(ctx)
	if err != nil {
		return err
	}
	names, err := a.st.PlayerNames(ctx)
	if err != nil {
		return err
	}
	res := records.SectionResultsWith(fillNames(recs, names), race, section, a.cmp)
	return a.SendText(chatID, sectionText(res))
}

// ---------- Callback handling ----------

func (a *App) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	// ack
	cb := tgbotapi.NewCallback(q.ID, "")
	_, _ = a.bot.Request(cb)

	if q.Message == nil {
		return nil
	}
	chatID := q.Message.Chat.ID

	if strings.HasPrefix(q.Data, "race:") {
		i, err := strconv.Atoi(strings.TrimPrefix(q.Data, "race:"))
		if err != nil {
			return nil
		}
		races, err := a.races(ctx)
		if err != nil {
			return err
		}
		if i < 0 || i >= len(races) {
			return a.SendText(chatID, "大会が見つかりません。/races で再表示してください。")
		}
		return a.SendText(chatID, raceText(races[i], a.cmp))
	}
	return nil
}
