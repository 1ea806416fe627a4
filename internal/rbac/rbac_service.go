package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy() error
	Enforce(req EnforceRequest) (bool, error)
}

type service struct {
	source   PolicySource
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.RWMutex
	loaded   bool
}

func NewService(source PolicySource, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		source:   source,
		enforcer: enforcer,
		logger:   l.Named("rbac.service"),
	}
}

func (s *service) LoadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPolicyUnlocked()
}

func (s *service) loadPolicyUnlocked() error {
	s.enforcer.ClearPolicy()

	inheritances, err := s.source.Inheritances()
	if err != nil {
		return err
	}
	for _, in := range inheritances {
		if _, err := s.enforcer.AddGroupingPolicy(in.Role, in.Parent); err != nil {
			return err
		}
	}

	rules, err := s.source.Rules()
	if err != nil {
		return err
	}
	for _, r := range rules {
		if _, err := s.enforcer.AddPolicy(r.Role, r.Resource, r.Action); err != nil {
			return err
		}
	}

	s.loaded = true
	s.logger.Debug("rbac policy loaded",
		zap.Int("inheritances", len(inheritances)),
		zap.Int("rules", len(rules)),
	)
	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded {
		if err := s.LoadPolicy(); err != nil {
			return false, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
