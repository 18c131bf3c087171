// Package scheduler, zamanlanmış duyuruların yayınlanmasını yönetir.
//
// robfig/cron ile her dakika tetiklenir ve scheduled_at'i geçmiş
// duyuruları yayınlatır. Tek instance deploy için yeterlidir; çoklu
// instance'ta MarkSent'in status guard'ı çifte yayını engeller.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// tickTimeout, tek bir yayın turunun üst süre sınırı.
// DB takılırsa tur iptal olur, sonraki dakika tekrar denenir.
const tickTimeout = 30 * time.Second

// AnnouncementPublisher, scheduler'ın ihtiyaç duyduğu tek operasyon.
// AnnouncementService bu interface'i implement eder.
type AnnouncementPublisher interface {
	PublishDue(ctx context.Context) (int, error)
}

// Scheduler, cron tabanlı zamanlanmış görev çalıştırıcısı.
type Scheduler struct {
	cron      *cron.Cron
	publisher AnnouncementPublisher
}

// New, scheduler oluşturur. Start çağrılana kadar hiçbir şey çalışmaz.
func New(publisher AnnouncementPublisher) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		publisher: publisher,
	}
}

// Start, dakikalık yayın kontrolünü başlatır.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@every 1m", s.publishDueTick)
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("[scheduler] started (announcement publish check every 1m)")
	return nil
}

// Stop, çalışan job'ların bitmesini bekleyip scheduler'ı durdurur.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[scheduler] stopped")
}

func (s *Scheduler) publishDueTick() {
	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	n, err := s.publisher.PublishDue(ctx)
	if err != nil {
		log.Printf("[scheduler] publish due failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[scheduler] published %d scheduled announcement(s)", n)
	}
}
