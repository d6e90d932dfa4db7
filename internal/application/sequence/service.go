package sequence

import (
	"context"
	"strings"
	"sync"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CounterResponse is the state of one counter after an operation
type CounterResponse struct {
	Prefix   string `json:"prefix"`
	Sequence int64  `json:"sequence"`
	Code     string `json:"code,omitempty"`
}

// Service draws numbers from named counters and repairs them against the
// codes actually in use
type Service struct {
	repo   sequence.Repository
	locker shared.Locker

	mu      sync.RWMutex
	sources map[string]source
}

type source struct {
	codes      sequence.CodeSource
	codePrefix string
}

// NewService creates a sequence service. locker serialises master-id
// allocation per prefix.
func NewService(repo sequence.Repository, locker shared.Locker) *Service {
	return &Service{
		repo:    repo,
		locker:  locker,
		sources: make(map[string]source),
	}
}

// RegisterSource tells the service where codes minted under prefix live.
// codePrefix is the literal text in front of the number when it differs from prefix.
func (s *Service) RegisterSource(prefix, codePrefix string, codes sequence.CodeSource) {
	if codePrefix == "" {
		codePrefix = prefix
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[prefix] = source{codes: codes, codePrefix: codePrefix}
}

func (s *Service) sourceFor(prefix string) (source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.sources[prefix]
	if !ok {
		return source{}, shared.Newf(shared.ErrDependencyMissing, "no code source registered for prefix %q", prefix)
	}
	return src, nil
}

func validPrefix(prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return shared.Newf(shared.ErrInvalidInput, "prefix is required")
	}
	return nil
}

// Next returns the next value of prefix, starting at 1
func (s *Service) Next(ctx context.Context, prefix string) (int64, error) {
	if err := validPrefix(prefix); err != nil {
		return 0, err
	}
	return s.repo.Next(ctx, prefix)
}

// Current returns the stored value of prefix
func (s *Service) Current(ctx context.Context, prefix string) (*CounterResponse, error) {
	if err := validPrefix(prefix); err != nil {
		return nil, err
	}
	n, err := s.repo.Current(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return &CounterResponse{Prefix: prefix, Sequence: n}, nil
}

// Reconcile sets the counter to the largest number found among used codes
func (s *Service) Reconcile(ctx context.Context, prefix string) (*CounterResponse, error) {
	if err := validPrefix(prefix); err != nil {
		return nil, err
	}
	src, err := s.sourceFor(prefix)
	if err != nil {
		return nil, err
	}
	lease, err := s.locker.Obtain(ctx, "sequence:"+prefix)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, lease)

	codes, err := src.codes.UsedCodes(ctx)
	if err != nil {
		return nil, err
	}
	max := sequence.MaxSuffix(codes, src.codePrefix)
	if err := s.repo.Set(ctx, prefix, max); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("sequence reconciled", zap.String("prefix", prefix), zap.Int64("sequence", max))
	return &CounterResponse{Prefix: prefix, Sequence: max}, nil
}

// AllocateMasterID picks the smallest free number not below the counter,
// stores it and returns the formatted code, e.g. WH-004
func (s *Service) AllocateMasterID(ctx context.Context, prefix string, width int) (string, error) {
	if err := validPrefix(prefix); err != nil {
		return "", err
	}
	src, err := s.sourceFor(prefix)
	if err != nil {
		return "", err
	}
	lease, err := s.locker.Obtain(ctx, "sequence:"+prefix)
	if err != nil {
		return "", err
	}
	defer s.release(ctx, lease)

	codes, err := src.codes.UsedCodes(ctx)
	if err != nil {
		return "", err
	}
	used := make([]int64, 0, len(codes))
	for _, c := range codes {
		if n, ok := sequence.ParseSuffix(c, src.codePrefix); ok {
			used = append(used, n)
		}
	}
	floor, err := s.repo.Current(ctx, prefix)
	if err != nil {
		return "", err
	}
	if floor > 0 {
		// the last allocation may not be saved yet
		used = append(used, floor)
	}
	n := sequence.SmallestFree(used, floor)
	if err := s.repo.Set(ctx, prefix, n); err != nil {
		return "", err
	}
	return sequence.Format(src.codePrefix, n, width), nil
}

// Allocate is AllocateMasterID wrapped for the HTTP surface
func (s *Service) Allocate(ctx context.Context, prefix string, width int) (*CounterResponse, error) {
	if width <= 0 {
		width = 3
	}
	code, err := s.AllocateMasterID(ctx, prefix, width)
	if err != nil {
		return nil, err
	}
	n, _ := sequence.ParseSuffix(code, s.mustCodePrefix(prefix))
	return &CounterResponse{Prefix: prefix, Sequence: n, Code: code}, nil
}

func (s *Service) mustCodePrefix(prefix string) string {
	src, err := s.sourceFor(prefix)
	if err != nil {
		return prefix
	}
	return src.codePrefix
}

// NextResponse is Next wrapped for the HTTP surface
func (s *Service) NextResponse(ctx context.Context, prefix string) (*CounterResponse, error) {
	n, err := s.Next(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return &CounterResponse{Prefix: prefix, Sequence: n}, nil
}

func (s *Service) release(ctx context.Context, lease shared.Lease) {
	if err := lease.Release(ctx); err != nil {
		logger.L(ctx).Warn("failed to release sequence lock", zap.Error(err))
	}
}
