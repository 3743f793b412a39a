package backup

import (
	"sync"
	"waifud/internal/backup/interfaces"
	"waifud/internal/providers"
	"waifud/internal/structures"

	"github.com/roylee0704/gron"
)

// GalleryCleaner is the slice of the gallery engine the sweep job needs.
type GalleryCleaner interface {
	CleanupOutputs() (int, error)
}

type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	manager *Manager
	cleaner GalleryCleaner
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Backup.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.manager.Save(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while backing up config: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Backed up config to %s", s.config.Backup.FilePath)
	})

	s.cron.AddFunc(gron.Every(s.config.Gallery.CleanupInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		deleted, err := s.cleaner.CleanupOutputs()
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Gallery cleanup error: %s", err)
			return
		}
		s.logger.Debugf(providers.TypeApp, "Gallery cleanup done, removed %d files", deleted)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.manager.Restore()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting config backup...")
	if err := s.manager.Save(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while backing up config: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, manager *Manager, cleaner GalleryCleaner) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		manager: manager,
		cleaner: cleaner,
	}
}
