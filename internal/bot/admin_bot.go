package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"invest_webapp/internal/logger"
	"invest_webapp/internal/scheduler"
	"invest_webapp/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AdminBot принимает команды администраторов в Telegram: статистика
// платформы и ручной запуск фоновых задач. Также используется планировщиком
// для уведомлений об итогах прогонов
type AdminBot struct {
	bot          *tgbotapi.BotAPI
	adminService *service.AdminService
	sched        *scheduler.Scheduler
	adminIDs     []int64
	stopCh       chan struct{}
	wg           sync.WaitGroup
	log          *slog.Logger
}

func NewAdminBot(token string, adminService *service.AdminService, sched *scheduler.Scheduler, adminIDs []int64) (*AdminBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log := logger.With("component", "admin_bot")
	log.Info("admin bot authorized", "username", api.Self.UserName)

	return &AdminBot{
		bot:          api,
		adminService: adminService,
		sched:        sched,
		adminIDs:     adminIDs,
		stopCh:       make(chan struct{}),
		log:          log,
	}, nil
}

// Start запускает прослушивание команд
func (b *AdminBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if !b.isAdmin(update.Message.From.ID) {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(update.Message)
		}
	}
}

// Stop плавно останавливает бота
func (b *AdminBot) Stop() {
	b.log.Info("stopping admin bot...")
	close(b.stopCh)
	b.bot.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("admin bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("admin bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *AdminBot) isAdmin(userID int64) bool {
	for _, id := range b.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// NotifyAdmins отправляет сообщение всем администраторам
func (b *AdminBot) NotifyAdmins(text string) {
	for _, id := range b.adminIDs {
		msg := tgbotapi.NewMessage(id, text)
		if _, err := b.bot.Send(msg); err != nil {
			b.log.Warn("не удалось отправить уведомление админу", "admin_id", id, "error", err)
		}
	}
}

// handleCommand обрабатывает команду администратора
func (b *AdminBot) handleCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var response string

	switch msg.Command() {
	case "start", "help":
		response = "Команды:\n" +
			"/stats - сводка по платформе\n" +
			"/jobs - последние прогоны задач\n" +
			"/audit - последние записи аудита\n" +
			"/accrual - запустить дневные начисления\n" +
			"/maturity - запустить погашение стейкингов\n" +
			"/purge - запустить очистку истории"

	case "stats":
		stats, err := b.adminService.GetStats(ctx)
		if err != nil {
			response = fmt.Sprintf("Ошибка: %v", err)
			break
		}
		response = fmt.Sprintf(
			"📊 Платформа\nПользователей: %d\nАктивных VIP: %d\nАктивных стейкингов: %d\nНачислено сегодня: %.2f",
			stats.Users, stats.ActiveVip, stats.ActiveStaking, stats.EarningsToday)

	case "jobs":
		runs, err := b.adminService.GetRecentJobRuns(ctx, 10)
		if err != nil {
			response = fmt.Sprintf("Ошибка: %v", err)
			break
		}
		if len(runs) == 0 {
			response = "Прогонов еще не было"
			break
		}
		response = "Последние прогоны:\n"
		for _, run := range runs {
			response += fmt.Sprintf("%s %s\n", run.CreatedAt.Format("02.01 15:04"), run.Action)
		}

	case "audit":
		logs, err := b.adminService.GetRecentAudit(ctx, 10)
		if err != nil {
			response = fmt.Sprintf("Ошибка: %v", err)
			break
		}
		if len(logs) == 0 {
			response = "Журнал аудита пуст"
			break
		}
		response = "Последние записи аудита:\n"
		for _, l := range logs {
			response += fmt.Sprintf("%s [%s] %s\n", l.CreatedAt.Format("02.01 15:04"), l.Category, l.Action)
		}

	case "accrual":
		response = "Запускаю дневные начисления..."
		go b.sched.RunAccrual()

	case "maturity":
		response = "Запускаю погашение стейкингов..."
		go b.sched.RunMaturity()

	case "purge":
		response = "Запускаю очистку истории..."
		go b.sched.RunRetention()

	default:
		response = "Неизвестная команда, /help"
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, response)
	if _, err := b.bot.Send(reply); err != nil {
		b.log.Error("не удалось отправить ответ", "error", err)
	}
}
