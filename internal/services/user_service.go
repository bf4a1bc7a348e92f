package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sjperalta/salesdesk-api/internal/jobs"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/repository"
	"github.com/sjperalta/salesdesk-api/pkg/logger"
)

// CreateUserInput is the body of POST /users.
type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
}

// UserService handles user-related business logic
type UserService struct {
	repo         repository.UserRepository
	tx           repository.Transactor
	worker       *jobs.Worker
	emailService *EmailService
	auditSvc     *AuditService
}

func NewUserService(repo repository.UserRepository, tx repository.Transactor, worker *jobs.Worker, emailService *EmailService, auditSvc *AuditService) *UserService {
	return &UserService{
		repo:         repo,
		tx:           tx,
		worker:       worker,
		emailService: emailService,
		auditSvc:     auditSvc,
	}
}

func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	return user, classify(err)
}

func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	users, total, err := s.repo.List(ctx, query)
	return users, total, classify(err)
}

// Create registers a user on behalf of caller and audits it as create_user.
func (s *UserService) Create(ctx context.Context, caller models.CallerIdentity, input CreateUserInput) (*models.User, error) {
	if !models.IsValidRole(input.Role) {
		return nil, fmt.Errorf("%w: role %q is not recognised", ErrValidation, input.Role)
	}
	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:             strings.ToLower(strings.TrimSpace(input.Email)),
		EncryptedPassword: hashedPassword,
		FullName:          strings.TrimSpace(input.FullName),
		Phone:             input.Phone,
		Role:              input.Role,
		Status:            models.StatusActive,
	}
	if caller.UserID != "" {
		user.CreatedByID = &caller.UserID
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, user); err != nil {
			return classify(err)
		}
		entry := NewAuditEntry(models.ActionCreate, caller, AuditTarget{Kind: "user", ID: user.ID},
			fmt.Sprintf("email=%s, role=%s", user.Email, user.Role))
		return s.auditSvc.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	if s.emailService != nil && s.worker != nil {
		created := *user
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.emailService.SendAccountCreated(ctx, &created)
		})
	}
	logger.WithContext(ctx).Info("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Bootstrap creates a user without an acting caller. Used by the
// create_admin command.
func (s *UserService) Bootstrap(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if !models.IsValidRole(input.Role) {
		return nil, fmt.Errorf("%w: role %q is not recognised", ErrValidation, input.Role)
	}
	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:             strings.ToLower(strings.TrimSpace(input.Email)),
		EncryptedPassword: hashedPassword,
		FullName:          strings.TrimSpace(input.FullName),
		Phone:             input.Phone,
		Role:              input.Role,
		Status:            models.StatusActive,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, classify(err)
	}
	return user, nil
}
