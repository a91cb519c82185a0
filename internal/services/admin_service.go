package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAdminNotFound     = errors.New("admin not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrForbidden         = errors.New("operation not allowed for this admin")
	ErrMasterUndeletable = errors.New("master admins cannot be deleted")
)

// Actor is the admin performing a request. Requests authorised by the
// static admin token act as a master with no id.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsMaster() bool {
	return a.Role == models.RoleMaster
}

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

func (s *AdminService) Get(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	return &admin, nil
}

func (s *AdminService) Create(ctx context.Context, actor Actor, req *dto.CreateAdminRequest) (*models.Admin, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = models.RoleAdmin
	}
	if role == models.RoleMaster && !actor.IsMaster() {
		return nil, ErrForbidden
	}
	return s.create(ctx, req.Name, req.Email, req.Phone, req.Password, role)
}

// CreateMaster bootstraps a master account outside any request.
func (s *AdminService) CreateMaster(ctx context.Context, name, email, password string) (*models.Admin, error) {
	req := &dto.CreateAdminRequest{Name: name, Email: email, Password: password, Role: models.RoleMaster}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return s.create(ctx, name, email, nil, password, models.RoleMaster)
}

func (s *AdminService) create(ctx context.Context, name, email string, phone *string, password, role string) (*models.Admin, error) {
	email = normalizeEmail(email)

	var existing int64
	s.db.WithContext(ctx).Model(&models.Admin{}).Where("email = ?", email).Count(&existing)
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.Admin{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(name),
		Email:    email,
		Phone:    trimmedOrNil(phone),
		Password: string(hash),
		Role:     role,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("admin created", "admin_id", admin.ID.String(), "role", role)
	return &admin, nil
}

func (s *AdminService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateAdminRequest) (*models.Admin, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	admin, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canUpdate(actor, admin, req); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		admin.Name = strings.TrimSpace(*req.Name)
		updates["name"] = admin.Name
	}
	if req.Phone != nil {
		admin.Phone = trimmedOrNil(req.Phone)
		updates["phone"] = admin.Phone
	}
	if req.Role != nil {
		admin.Role = *req.Role
		updates["role"] = admin.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		admin.Password = string(hash)
		updates["password"] = admin.Password
	}
	if len(updates) == 0 {
		return admin, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}
	return admin, nil
}

// Delete removes an admin and revokes its sessions.
func (s *AdminService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	admin, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := canDelete(actor, admin); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RefreshToken{}).Where("admin_id = ?", id).Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Admin{}, "id = ?", id).Error
	})
}

// canUpdate lets only masters touch master accounts or grant the master role.
func canUpdate(actor Actor, target *models.Admin, req *dto.UpdateAdminRequest) error {
	if actor.IsMaster() {
		return nil
	}
	if target.IsMaster() {
		return ErrForbidden
	}
	if req.Role != nil && *req.Role == models.RoleMaster {
		return ErrForbidden
	}
	return nil
}

// canDelete keeps masters and lets other admins remove only themselves.
func canDelete(actor Actor, target *models.Admin) error {
	if target.IsMaster() {
		return ErrMasterUndeletable
	}
	if !actor.IsMaster() && actor.ID != target.ID {
		return ErrForbidden
	}
	return nil
}
