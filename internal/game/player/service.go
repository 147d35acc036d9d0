package player

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/internal/game/events"
	"github.com/nexusroot/nexus/internal/game/hardware"
	"github.com/nexusroot/nexus/pkg/core/logging"
)

// Config holds player service settings
type Config struct {
	StartingCredits   int
	FragmentsToUnlock int
	Hardware          hardware.Config
	MiningMinHours    int
	MiningMaxHours    int
}

// DefaultConfig returns the stock settings
func DefaultConfig() Config {
	return Config{
		FragmentsToUnlock: 1,
		Hardware:          hardware.DefaultConfig(),
		MiningMinHours:    1,
		MiningMaxHours:    24,
	}
}

// Service manages live players on top of a Repository. Every lookup of
// the same name returns the same *Player while it is cached.
type Service struct {
	repo   Repository
	bus    events.Publisher
	cfg    Config
	logger *logging.Logger

	mu   sync.Mutex
	live map[string]*Player
}

// NewService creates a player service
func NewService(repo Repository, bus events.Publisher, cfg Config) *Service {
	if bus == nil {
		bus = events.Discard{}
	}
	if cfg.MiningMinHours <= 0 {
		cfg.MiningMinHours = 1
	}
	if cfg.MiningMaxHours < cfg.MiningMinHours {
		cfg.MiningMaxHours = 24
	}
	return &Service{
		repo:   repo,
		bus:    bus,
		cfg:    cfg,
		logger: logging.New("player"),
		live:   make(map[string]*Player),
	}
}

func (s *Service) options() Options {
	return Options{
		StartingCredits:   s.cfg.StartingCredits,
		FragmentsToUnlock: s.cfg.FragmentsToUnlock,
		Hardware:          s.cfg.Hardware,
	}
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	s.bus.Publish(ctx, events.New(eventType, "player_service", data))
}

// Create registers a new player
func (s *Service) Create(ctx context.Context, name string, vip bool) (*Player, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live[strings.ToLower(name)]; ok {
		return nil, ErrDuplicate(name)
	}
	p := New(uuid.NewString(), name, vip, s.options())
	if err := s.repo.Create(ctx, p.Record()); err != nil {
		return nil, err
	}
	s.live[strings.ToLower(name)] = p

	s.publish(ctx, events.PlayerCreated, map[string]interface{}{
		"player_id":   p.ID,
		"player_name": p.Name,
		"is_vip":      vip,
	})
	s.logger.Info("Player created", "player", name, "vip", vip)
	return p, nil
}

// GetByName returns the live player for name, loading it when needed
func (s *Service) GetByName(ctx context.Context, name string) (*Player, error) {
	key := strings.ToLower(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.live[key]; ok {
		return p, nil
	}
	r, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	p := FromRecord(r, s.options())
	s.live[key] = p
	return p, nil
}

// Get returns the live player with the given id
func (s *Service) Get(ctx context.Context, id string) (*Player, error) {
	s.mu.Lock()
	for _, p := range s.live {
		if p.ID == id {
			s.mu.Unlock()
			return p, nil
		}
	}
	s.mu.Unlock()

	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.GetByName(ctx, r.Name)
}

// List returns a summary of every stored player. Live players report
// their in-memory state.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Summary, 0, len(records))
	for _, r := range records {
		if p, ok := s.live[strings.ToLower(r.Name)]; ok {
			out = append(out, p.Summary())
			continue
		}
		out = append(out, Summary{
			ID:       r.ID,
			Name:     r.Name,
			Level:    r.Stats.Level,
			Credits:  r.Stats.Credits,
			VIP:      r.VIP,
			Online:   r.Online,
			Theme:    r.Settings.Theme,
			Commands: r.Stats.TotalCommandsExecuted,
		})
	}
	return out, nil
}

// Save persists the current state of p
func (s *Service) Save(ctx context.Context, p *Player) error {
	if err := s.repo.Save(ctx, p.Record()); err != nil {
		return nxerror.Wrap(err, "failed to save player "+p.Name)
	}
	return nil
}

// persist saves p after an in-memory change. A failed save is logged and
// the change stands; Close flushes live players again.
func (s *Service) persist(ctx context.Context, p *Player) {
	if err := s.Save(ctx, p); err != nil {
		s.logger.Error("Saving player failed", "player", p.Name, "error", err)
	}
}

// Delete removes a player from storage and the live cache
func (s *Service) Delete(ctx context.Context, name string) error {
	p, err := s.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.live, strings.ToLower(name))
	s.mu.Unlock()
	s.logger.Info("Player deleted", "player", name)
	return nil
}

// Login marks the player online
func (s *Service) Login(ctx context.Context, p *Player) error {
	p.setOnline(true)
	s.publish(ctx, events.PlayerLoggedIn, map[string]interface{}{
		"player_id":   p.ID,
		"player_name": p.Name,
	})
	s.persist(ctx, p)
	return nil
}

// Logout marks the player offline
func (s *Service) Logout(ctx context.Context, p *Player) error {
	p.setOnline(false)
	s.publish(ctx, events.PlayerLoggedOut, map[string]interface{}{
		"player_id":   p.ID,
		"player_name": p.Name,
	})
	s.persist(ctx, p)
	return nil
}

// AddExperience grants xp and reports whether the player levelled up
func (s *Service) AddExperience(ctx context.Context, p *Player, xp int) (bool, error) {
	if xp < 0 {
		return false, nxerror.New("experience amount cannot be negative", nxerror.CodeValidation)
	}
	oldLevel, newLevel := p.AddExperience(xp)
	if newLevel > oldLevel {
		s.publish(ctx, events.PlayerLevelUp, map[string]interface{}{
			"player_id":   p.ID,
			"player_name": p.Name,
			"old_level":   oldLevel,
			"new_level":   newLevel,
			"xp_gained":   xp,
		})
		s.logger.Info("Player levelled up", "player", p.Name, "level", newLevel)
	}
	s.persist(ctx, p)
	return newLevel > oldLevel, nil
}

// AddCredits changes the balance by amount. A negative amount fails
// when the player cannot afford it.
func (s *Service) AddCredits(ctx context.Context, p *Player, amount int, reason string) error {
	var oldBalance, newBalance int
	if amount < 0 {
		oldBalance = p.Credits()
		if err := p.Debit(-amount); err != nil {
			return err
		}
		newBalance = p.Credits()
	} else {
		oldBalance, newBalance = p.Credit(amount)
	}

	s.publish(ctx, events.PlayerCreditsChanged, map[string]interface{}{
		"player_id":   p.ID,
		"player_name": p.Name,
		"old_credits": oldBalance,
		"new_credits": newBalance,
		"change":      amount,
		"reason":      reason,
	})
	s.logger.Debug("Credits changed", "player", p.Name, "change", amount, "reason", reason)
	s.persist(ctx, p)
	return nil
}

// Upgrade buys the next tier of comp for p
func (s *Service) Upgrade(ctx context.Context, p *Player, comp hardware.Component) (int, int, error) {
	tier, cost, err := p.Upgrade(comp)
	if err != nil {
		return tier, cost, err
	}
	s.publish(ctx, events.PlayerUpgradedHardware, map[string]interface{}{
		"player_id":   p.ID,
		"player_name": p.Name,
		"component":   string(comp),
		"new_tier":    tier,
		"cost":        cost,
	})
	s.logger.Info("Hardware upgraded", "player", p.Name, "component", comp, "tier", tier, "cost", cost)
	s.persist(ctx, p)
	return tier, cost, nil
}

// LockCPU locks the target's CPU for d
func (s *Service) LockCPU(ctx context.Context, p *Player, d time.Duration) error {
	until := p.LockCPU(d)
	s.logger.Info("CPU locked", "player", p.Name, "until", until.Format(time.RFC3339))
	s.persist(ctx, p)
	return nil
}

// StartMining starts a passive mining run of hours
func (s *Service) StartMining(ctx context.Context, p *Player, hours int) error {
	if hours < s.cfg.MiningMinHours || hours > s.cfg.MiningMaxHours {
		return nxerror.Newf(nxerror.CodeValidation,
			"mining duration must be between %d and %d hours", s.cfg.MiningMinHours, s.cfg.MiningMaxHours)
	}
	if err := p.Computer.StartMining(time.Duration(hours) * time.Hour); err != nil {
		return err
	}
	s.publish(ctx, events.PassiveMiningStarted, map[string]interface{}{
		"player_id":      p.ID,
		"player_name":    p.Name,
		"duration_hours": hours,
	})
	s.logger.Info("Passive mining started", "player", p.Name, "hours", hours)
	s.persist(ctx, p)
	return nil
}

// CollectMining pays out a finished mining run. It returns 0 when there
// is nothing to collect.
func (s *Service) CollectMining(ctx context.Context, p *Player) (int, error) {
	reward, ok := p.Computer.CollectMining()
	if !ok {
		return 0, nil
	}
	if err := s.AddCredits(ctx, p, reward, "passive mining completion"); err != nil {
		return 0, err
	}
	s.publish(ctx, events.PassiveMiningCompleted, map[string]interface{}{
		"player_id":      p.ID,
		"player_name":    p.Name,
		"credits_earned": reward,
	})
	return reward, nil
}

// Close flushes every live player and closes the repository
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	live := make([]*Player, 0, len(s.live))
	for _, p := range s.live {
		live = append(live, p)
	}
	s.mu.Unlock()

	for _, p := range live {
		if err := s.Save(ctx, p); err != nil {
			s.logger.Warn("Failed to flush player", "player", p.Name, "error", err)
		}
	}
	return s.repo.Close()
}
