// Package service implements the identity operations: sign-up, sign-in,
// sign-out, and session introspection. Transport concerns stay in the
// handler; storage stays behind the store interfaces.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"innoport/internal/identity/metrics"
	"innoport/internal/identity/models"
	"innoport/internal/identity/password"
	"innoport/internal/identity/session"
	"innoport/internal/identity/store"
	id "innoport/pkg/domain"
	dErrors "innoport/pkg/domain-errors"
	audit "innoport/pkg/platform/audit"
	auditpub "innoport/pkg/platform/audit/publisher"
	"innoport/pkg/requestcontext"
)

// RevocationList abstracts the token revocation store (Redis or memory).
type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// EventSink receives auth events; the session state implements it.
type EventSink interface {
	OnAuthEvent(event session.EventKind, sess *models.Session)
}

// Service adapts the identity stores into the auth operations.
type Service struct {
	users       store.UserStore
	profiles    store.ProfileStore
	roles       store.RoleStore
	hasher      *password.Hasher
	tokens      *TokenIssuer
	revocations RevocationList
	auditor     *auditpub.Publisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	sink        EventSink
	atomic      store.Atomic
}

// Deps bundles the service dependencies to keep the constructor readable.
type Deps struct {
	Users       store.UserStore
	Profiles    store.ProfileStore
	Roles       store.RoleStore
	Hasher      *password.Hasher
	Tokens      *TokenIssuer
	Revocations RevocationList
	Auditor     *auditpub.Publisher
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	Sink        EventSink
	Atomic      store.Atomic
}

func New(deps Deps) (*Service, error) {
	if deps.Users == nil || deps.Profiles == nil || deps.Roles == nil {
		return nil, errors.New("identity stores are required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	if deps.Hasher == nil {
		deps.Hasher = password.NewHasher(nil)
	}
	if deps.Atomic == nil {
		deps.Atomic = store.PassthroughAtomic{}
	}
	return &Service{
		users:       deps.Users,
		profiles:    deps.Profiles,
		roles:       deps.Roles,
		hasher:      deps.Hasher,
		tokens:      deps.Tokens,
		revocations: deps.Revocations,
		auditor:     deps.Auditor,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		sink:        deps.Sink,
		atomic:      deps.Atomic,
	}, nil
}

// SignUp creates the identity, profile, and role assignment together.
// All input checks run before any store write.
func (s *Service) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.Profile, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	role, err := id.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
	} else if !dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "lookup email", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "hash password", err)
	}

	now := requestcontext.Now(ctx)
	user := models.User{
		ID:           id.NewUserID(),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	profile := models.Profile{
		UserID:               user.ID,
		Name:                 req.Name,
		Email:                req.Email,
		InstitutionOrStartup: req.Institution,
		Phone:                req.Phone,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	assignment := models.RoleAssignment{UserID: user.ID, Role: role, CreatedAt: now}

	// The three rows land together or not at all; a user without a role
	// would be stuck on the hold path forever.
	err = s.atomic.Run(ctx, func(ctx context.Context) error {
		if err := s.users.Save(ctx, user); err != nil {
			return dErrors.Wrap(dErrors.CodeInternal, "save user", err)
		}
		if err := s.profiles.Save(ctx, profile); err != nil {
			return dErrors.Wrap(dErrors.CodeInternal, "save profile", err)
		}
		if err := s.roles.Assign(ctx, assignment); err != nil {
			return dErrors.Wrap(dErrors.CodeInternal, "assign role", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SignUps.Inc()
	}
	s.audit(ctx, audit.Event{
		UserID: user.ID,
		Action: string(audit.EventUserSignedUp),
		Reason: string(role),
	})
	return &profile, nil
}

// SignIn verifies credentials and issues an access token. Failures are
// reported uniformly so the response does not reveal which field was wrong.
func (s *Service) SignIn(ctx context.Context, req *models.SignInRequest) (*models.SignInResult, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, s.signInRejected(ctx, req.Email)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "lookup email", err)
	}

	if err := s.hasher.Verify(req.Password, user.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, s.signInRejected(ctx, req.Email)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "verify password", err)
	}

	sess := &models.Session{
		ID:     id.NewSessionID(),
		UserID: user.ID,
	}
	// Role is attached when the assignment row is readable; a temporarily
	// missing row still signs the user in, and the resolver fills the gap.
	if assignment, err := s.roles.FindByUser(ctx, user.ID); err == nil {
		sess.Role = assignment.Role
	} else if s.logger != nil {
		s.logger.WarnContext(ctx, "role row not readable at sign-in",
			"user_id", user.ID.String(),
			"error", err,
		)
	}

	token, err := s.tokens.Issue(sess)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "issue token", err)
	}

	if s.sink != nil {
		s.sink.OnAuthEvent(session.EventSignedIn, sess)
	}
	if s.metrics != nil {
		s.metrics.SignIns.Inc()
	}
	s.audit(ctx, audit.Event{
		UserID: user.ID,
		Action: string(audit.EventUserSignedIn),
	})

	return &models.SignInResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
		UserID:      user.ID.String(),
		Role:        sess.Role,
		SessionID:   sess.ID.String(),
	}, nil
}

func (s *Service) signInRejected(ctx context.Context, email string) error {
	if s.metrics != nil {
		s.metrics.SignInFailures.Inc()
	}
	s.audit(ctx, audit.Event{
		Action: string(audit.EventSignInFailed),
		Reason: email,
	})
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}

// SignOut revokes the presented token and clears the session state. The
// identity, profile, and role drop together; there is no window where one
// survives the others.
func (s *Service) SignOut(ctx context.Context, userID id.UserID, jti string) error {
	if s.revocations != nil && jti != "" {
		if err := s.revocations.RevokeToken(ctx, jti, s.tokens.TTL()); err != nil {
			return dErrors.Wrap(dErrors.CodeInternal, "revoke token", err)
		}
	}
	if s.sink != nil {
		s.sink.OnAuthEvent(session.EventSignedOut, nil)
	}
	if s.metrics != nil {
		s.metrics.SignOuts.Inc()
	}
	s.audit(ctx, audit.Event{
		UserID: userID,
		Action: string(audit.EventUserSignedOut),
	})
	return nil
}

// SessionInfo describes the authenticated caller for GET /auth/session.
type SessionInfo struct {
	UserID  string          `json:"user_id"`
	Profile *models.Profile `json:"profile,omitempty"`
	Role    id.Role         `json:"role,omitempty"`
}

// Describe loads profile and role for the authenticated user. Both lookups
// fail soft: a missing row leaves the field empty rather than erroring.
func (s *Service) Describe(ctx context.Context, userID id.UserID) (*SessionInfo, error) {
	if userID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	info := &SessionInfo{UserID: userID.String()}
	if profile, err := s.profiles.FindByUser(ctx, userID); err == nil {
		info.Profile = &profile
	}
	if assignment, err := s.roles.FindByUser(ctx, userID); err == nil {
		info.Role = assignment.Role
	}
	return info, nil
}

func (s *Service) audit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err,
		)
	}
}
