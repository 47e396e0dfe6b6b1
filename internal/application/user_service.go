package application

import (
	"context"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sisconis/identity-api/internal/apperror"
	"github.com/sisconis/identity-api/internal/domain/entity"
	repo "github.com/sisconis/identity-api/internal/domain/repository"
	"github.com/sisconis/identity-api/internal/domain/valueobject"
	"github.com/sisconis/identity-api/pkg/helpers"
	"github.com/sisconis/identity-api/pkg/mailer"
)

const profileCacheTTL = 10 * time.Minute

func profileKey(userID string) string {
	return "user:profile:" + userID
}

// UserService orchestrates the user lifecycle: entity construction and
// mutation through the domain layer, persistence through the repository
// port, plus the read-side plumbing (redis profile cache, elasticsearch
// index, lifecycle emails over RabbitMQ). Redis, Rabbit and ES are optional
// collaborators; the service degrades to repository-only when they are nil.
type UserService struct {
	Repo         repo.UserRepository
	Hasher       valueobject.PasswordHasher
	IDGen        entity.IDGenerator
	Logger       *logrus.Logger
	Redis        *redis.Client
	Rabbit       *helpers.RabbitPublisher
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewUserService(r repo.UserRepository, hasher valueobject.PasswordHasher, idGen entity.IDGenerator, logger *logrus.Logger, rdb *redis.Client, rabbit *helpers.RabbitPublisher, es *elasticsearch.Client, esUsersIndex string) *UserService {
	return &UserService{
		Repo:         r,
		Hasher:       hasher,
		IDGen:        idGen,
		Logger:       logger,
		Redis:        rdb,
		Rabbit:       rabbit,
		ES:           es,
		ESUsersIndex: esUsersIndex,
	}
}

// UserDTO is the read model handed to the transport layer. UpdatedAt is nil
// for a user that has never been mutated.
type UserDTO struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	LastName            string     `json:"last_name"`
	Email               string     `json:"email"`
	Dni                 string     `json:"dni"`
	IsPasswordTemporary bool       `json:"is_password_temporary"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

func toDTO(u *entity.User) *UserDTO {
	dto := &UserDTO{
		ID:                  u.ID(),
		Name:                u.Name(),
		LastName:            u.LastName(),
		Email:               u.Email().Value(),
		Dni:                 u.Dni().Value(),
		IsPasswordTemporary: u.IsPasswordTemporary(),
		CreatedAt:           u.CreatedAt(),
	}
	if at, ok := u.UpdatedAt(); ok {
		dto.UpdatedAt = &at
	}
	return dto
}

type CreateUserInput struct {
	Name     string
	LastName string
	Email    string
	Dni      string
}

type UpdateUserInput struct {
	Name     string
	LastName string
	Email    string
}

// PaginatedUsers mirrors the listing contract: one page of read models plus
// the total across all pages.
type PaginatedUsers struct {
	Items []*UserDTO `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

// Create checks email and dni uniqueness before constructing the entity, so
// a duplicate fails fast without touching the hasher. The storage unique
// indexes remain the authority for the check-then-insert race.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.Repo.ExistsByEmail(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &apperror.UserAlreadyExistsError{Field: "email", Value: email}
	}

	dni := strings.TrimSpace(in.Dni)
	taken, err = s.Repo.ExistsByDni(ctx, dni, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &apperror.UserAlreadyExistsError{Field: "dni", Value: dni}
	}

	user, err := entity.NewUser(ctx, entity.CreateUserProps{
		Name:     in.Name,
		LastName: in.LastName,
		Email:    in.Email,
		Dni:      in.Dni,
	}, s.IDGen, s.Hasher)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishEmail(ctx, mailer.EmailJob{
		To:       user.Email().Value(),
		Template: mailer.TemplateWelcome,
		Data: map[string]any{
			"Name": user.Name(),
		},
	})
	s.indexUser(ctx, user)
	if s.Logger != nil {
		s.Logger.WithField("user_id", user.ID()).Info("user created")
	}
	return toDTO(user), nil
}

// Update applies the partial profile update and, when an email is supplied,
// the email change. Email uniqueness is left to the storage constraint.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*UserDTO, error) {
	user, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	user.UpdateProfile(in.Name, in.LastName)
	if in.Email != "" {
		if err := user.UpdateEmail(in.Email); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.afterMutation(ctx, user)
	return toDTO(user), nil
}

// ChangePassword installs a permanent password; an invalid candidate leaves
// the stored state untouched and nothing is persisted.
func (s *UserService) ChangePassword(ctx context.Context, id, newPassword string) (*UserDTO, error) {
	user, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.ChangePassword(ctx, newPassword, s.Hasher); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.afterMutation(ctx, user)
	return toDTO(user), nil
}

// ResetPassword reverts the user to a temporary password derived from their
// dni and notifies them by email. No business failure mode beyond not-found.
func (s *UserService) ResetPassword(ctx context.Context, id string) error {
	user, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}
	if err := user.ResetToTemporaryPassword(ctx, s.Hasher); err != nil {
		return err
	}
	if err := s.Repo.Update(ctx, user); err != nil {
		return err
	}
	s.publishEmail(ctx, mailer.EmailJob{
		To:       user.Email().Value(),
		Template: mailer.TemplatePasswordReset,
		Data: map[string]any{
			"Name": user.Name(),
		},
	})
	s.afterMutation(ctx, user)
	return nil
}

// ChangeDni validates the new dni against other users before mutating; the
// current user is excluded so re-submitting their own dni is not a conflict.
func (s *UserService) ChangeDni(ctx context.Context, id, newDni string) (*UserDTO, error) {
	user, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	dni := strings.TrimSpace(newDni)
	taken, err := s.Repo.ExistsByDni(ctx, dni, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &apperror.UserAlreadyExistsError{Field: "dni", Value: dni}
	}

	if err := user.UpdateDni(newDni); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.afterMutation(ctx, user)
	return toDTO(user), nil
}

// Delete soft-deletes through the repository; the entity has no deleted
// state of its own.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.mustFind(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.dropCache(ctx, id)
	s.removeFromIndex(ctx, id)
	if s.Logger != nil {
		s.Logger.WithField("user_id", id).Info("user deleted")
	}
	return nil
}

// Get is a read-through: redis first, repository on a miss.
func (s *UserService) Get(ctx context.Context, id string) (*UserDTO, error) {
	if s.Redis != nil {
		var cached UserDTO
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, profileKey(id), &cached); err == nil && hit {
			return &cached, nil
		}
	}
	user, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(user)
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, profileKey(id), dto, profileCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("profile cache write failed")
		}
	}
	return dto, nil
}

// List returns one page of users with defaults {1, 10, created_at, desc, ""}.
func (s *UserService) List(ctx context.Context, p repo.Pagination) (*PaginatedUsers, error) {
	p = p.Normalized()
	users, total, err := s.Repo.Index(ctx, p)
	if err != nil {
		return nil, err
	}
	items := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		items = append(items, toDTO(u))
	}
	return &PaginatedUsers{Items: items, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

func (s *UserService) mustFind(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &apperror.UserNotFoundError{ID: id}
	}
	return user, nil
}

// afterMutation keeps the read side in step with a persisted change.
func (s *UserService) afterMutation(ctx context.Context, user *entity.User) {
	s.dropCache(ctx, user.ID())
	s.indexUser(ctx, user)
}

func (s *UserService) dropCache(ctx context.Context, id string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, profileKey(id)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", id).Warn("profile cache invalidation failed")
	}
}

func (s *UserService) publishEmail(ctx context.Context, job mailer.EmailJob) {
	if s.Rabbit == nil {
		return
	}
	if err := s.Rabbit.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("email job publish failed")
	}
}
