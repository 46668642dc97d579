package parcel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sendit/internal/apperr"
	"sendit/internal/domain"
	"sendit/internal/logx"
	"sendit/internal/notify"
	"sendit/internal/ports/parceltx"
)

// Result messages returned to callers.
const (
	MsgCreated            = "order created"
	MsgCanceled           = "order canceled"
	MsgDestinationUpdated = "parcel destination updated"
	MsgStatusUpdated      = "parcel status updated"
	MsgLocationUpdated    = "parcel location updated"
)

const maxLocationLen = 255

// Service enforces who may observe or mutate a parcel and in which state.
type Service struct {
	parcels          parcelRepository
	users            userRepository
	notifier         notifier
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a parcel Service.
func NewService(parcels parcelRepository, users userRepository, n notifier, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		parcels:          parcels,
		users:            users,
		notifier:         n,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// principal resolves the acting user; a token for a user that no longer exists is Forbidden.
func (s *Service) principal(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.Forbidden
	}
	return u, nil
}

func (s *Service) admin(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.principal(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin {
		return nil, apperr.Unauthorized
	}
	return u, nil
}

func validateNew(n *domain.NewParcel) error {
	n.WeightMetric = strings.TrimSpace(n.WeightMetric)
	n.From = strings.TrimSpace(n.From)
	n.To = strings.TrimSpace(n.To)

	switch {
	case n.Weight <= 0:
		return fmt.Errorf("%w: weight must be positive", apperr.Invalid)
	case n.WeightMetric == "":
		return fmt.Errorf("%w: weightmetric is required", apperr.Invalid)
	case n.From == "":
		return fmt.Errorf("%w: from is required", apperr.Invalid)
	case n.To == "":
		return fmt.Errorf("%w: to is required", apperr.Invalid)
	}
	return nil
}

func validatePage(p domain.Page) error {
	if p.OrderBy != "" && !p.OrderBy.Valid() {
		return fmt.Errorf("%w: unknown orderBy %q", apperr.Invalid, p.OrderBy)
	}
	if p.Limit != nil && *p.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", apperr.Invalid)
	}
	if p.Offset != nil && *p.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", apperr.Invalid)
	}
	return nil
}

// Create places a parcel order for principal. The parcel starts at its origin with status placed.
func (s *Service) Create(ctx context.Context, principal int64, n domain.NewParcel) (int64, error) {
	if err := validateNew(&n); err != nil {
		return 0, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.principal(ctx, principal); err != nil {
		return 0, err
	}
	n.PlacedBy = principal

	id, err := s.parcels.Create(ctx, n)
	if err != nil {
		return 0, err
	}

	s.logger.Info("parcel created",
		logx.String("event", "parcel_created"),
		logx.Int64("parcel_id", id),
		logx.Int64("user_id", principal),
	)
	return id, nil
}

// List returns every parcel. Only administrators may list.
func (s *Service) List(ctx context.Context, principal int64, page domain.Page) ([]domain.Parcel, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.admin(ctx, principal); err != nil {
		return nil, err
	}
	return s.parcels.List(ctx, page)
}

// Get returns a parcel visible to principal: its owner or an administrator.
func (s *Service) Get(ctx context.Context, principal, parcelID int64) (*domain.Parcel, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.principal(ctx, principal)
	if err != nil {
		return nil, err
	}

	p, err := s.parcels.Get(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	if p == nil || (p.PlacedBy != principal && !u.IsAdmin) {
		return nil, apperr.NotFound
	}
	return p, nil
}

// ListForUser returns the parcels placed by userID. A user may only list their own parcels.
func (s *Service) ListForUser(ctx context.Context, principal, userID int64, page domain.Page) ([]domain.Parcel, error) {
	if userID != principal {
		return nil, apperr.Forbidden
	}
	if err := validatePage(page); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.principal(ctx, principal); err != nil {
		return nil, err
	}
	return s.parcels.ListByOwner(ctx, userID, page)
}

// Cancel removes a parcel placed by principal that has not been delivered.
// A parcel of another user is reported exactly like a missing one.
func (s *Service) Cancel(ctx context.Context, principal, parcelID int64) (domain.CancelResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.parcels.WithTx(ctx, func(tx parceltx.Repository) error {
		p, err := tx.LockOwned(ctx, parcelID, principal)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.NotFound
		}
		if !p.Status.Cancelable() {
			return fmt.Errorf("%w: parcel is %s", apperr.InvalidTransition, p.Status)
		}
		return tx.Delete(ctx, parcelID)
	})
	if err != nil {
		return domain.CancelResult{}, err
	}

	s.logger.Info("parcel canceled",
		logx.String("event", "parcel_canceled"),
		logx.Int64("parcel_id", parcelID),
		logx.Int64("user_id", principal),
	)
	return domain.CancelResult{ID: parcelID, Message: MsgCanceled}, nil
}

// ChangeDestination sets a new destination on a parcel placed by principal.
func (s *Service) ChangeDestination(ctx context.Context, principal, parcelID int64, to string) (domain.DestinationResult, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return domain.DestinationResult{}, fmt.Errorf("%w: to is required", apperr.Invalid)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.parcels.WithTx(ctx, func(tx parceltx.Repository) error {
		p, err := tx.LockOwned(ctx, parcelID, principal)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.NotFound
		}
		if p.Status.Terminal() {
			return fmt.Errorf("%w: parcel is %s", apperr.InvalidTransition, p.Status)
		}
		if to == p.From {
			return fmt.Errorf("%w: destination equals origin", apperr.InvalidTransition)
		}
		return tx.UpdateDestination(ctx, parcelID, to)
	})
	if err != nil {
		return domain.DestinationResult{}, err
	}

	return domain.DestinationResult{ID: parcelID, To: to, Message: MsgDestinationUpdated}, nil
}

// ChangeStatus moves a parcel one step forward in its lifecycle and notifies the owner.
// Only administrators may change the status.
func (s *Service) ChangeStatus(ctx context.Context, principal, parcelID int64, status domain.ParcelStatus) (domain.StatusResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.admin(ctx, principal); err != nil {
		return domain.StatusResult{}, err
	}
	if !status.Valid() {
		return domain.StatusResult{}, fmt.Errorf("%w: unknown status %q", apperr.Invalid, status)
	}

	var owner domain.ParcelOwner
	err := s.parcels.WithTx(ctx, func(tx parceltx.Repository) error {
		p, err := tx.Lock(ctx, parcelID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.NotFound
		}
		if !p.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s to %s", apperr.InvalidTransition, p.Status, status)
		}
		owner = p.Owner
		return tx.UpdateStatus(ctx, parcelID, status)
	})
	if err != nil {
		return domain.StatusResult{}, err
	}

	s.logger.Info("parcel status changed",
		logx.String("event", "parcel_status_changed"),
		logx.Int64("parcel_id", parcelID),
		logx.String("status", string(status)),
		logx.Int64("admin_id", principal),
	)
	s.dispatch(notify.NewStatusEvent(owner, parcelID, status, s.now()))

	return domain.StatusResult{ID: parcelID, Status: status, Message: MsgStatusUpdated}, nil
}

// ChangeLocation records where a parcel currently is and notifies the owner.
// Only administrators may change the location.
func (s *Service) ChangeLocation(ctx context.Context, principal, parcelID int64, location string) (domain.LocationResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.admin(ctx, principal); err != nil {
		return domain.LocationResult{}, err
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return domain.LocationResult{}, fmt.Errorf("%w: currentLocation is required", apperr.Invalid)
	}
	if len(location) > maxLocationLen {
		return domain.LocationResult{}, fmt.Errorf("%w: currentLocation is too long", apperr.Invalid)
	}

	var owner domain.ParcelOwner
	err := s.parcels.WithTx(ctx, func(tx parceltx.Repository) error {
		p, err := tx.Lock(ctx, parcelID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.NotFound
		}
		if p.Status.Terminal() {
			return fmt.Errorf("%w: parcel is %s", apperr.InvalidTransition, p.Status)
		}
		owner = p.Owner
		return tx.UpdateLocation(ctx, parcelID, location)
	})
	if err != nil {
		return domain.LocationResult{}, err
	}

	s.logger.Info("parcel moved",
		logx.String("event", "parcel_location_changed"),
		logx.Int64("parcel_id", parcelID),
		logx.String("location", location),
		logx.Int64("admin_id", principal),
	)
	s.dispatch(notify.NewLocationEvent(owner, parcelID, location, s.now()))

	return domain.LocationResult{ID: parcelID, CurrentLocation: location, Message: MsgLocationUpdated}, nil
}

// dispatch runs after commit; the dispatcher never blocks and its outcome is not reported.
func (s *Service) dispatch(ev notify.Event) {
	if s.notifier == nil || ev.Email == "" {
		return
	}
	s.notifier.Dispatch(ev)
}
