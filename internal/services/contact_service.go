package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrContactNotFound = errors.New("contact not found")

type ContactService struct {
	db *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

func (s *ContactService) List(ctx context.Context, companyID uuid.UUID, search string, limit, offset int) ([]models.Contact, int64, error) {
	var contacts []models.Contact
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Contact{}).Scopes(tenant.ForCompany(companyID))
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	err := query.Preload("Company").Order("name ASC").Limit(limit).Offset(offset).Find(&contacts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, total, nil
}

func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	if err := s.db.WithContext(ctx).Preload("Company").First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}
	return &contact, nil
}

func (s *ContactService) Create(ctx context.Context, req *dto.ContactRequest) (*models.Contact, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureCompany(ctx, req.CompanyID); err != nil {
		return nil, err
	}

	contact := models.Contact{ID: uuid.New()}
	applyContactRequest(&contact, req)
	if err := s.db.WithContext(ctx).Omit("Company").Create(&contact).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return &contact, nil
}

func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req *dto.ContactRequest) (*models.Contact, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	contact, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCompany(ctx, req.CompanyID); err != nil {
		return nil, err
	}

	applyContactRequest(contact, req)
	contact.Company = nil
	if err := s.db.WithContext(ctx).Omit("Company").Save(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Contact{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (s *ContactService) ensureCompany(ctx context.Context, companyID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Company{}).Where("id = ?", companyID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check company: %w", err)
	}
	if count == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

func applyContactRequest(c *models.Contact, req *dto.ContactRequest) {
	c.CompanyID = req.CompanyID
	c.Name = strings.TrimSpace(req.Name)
	c.Email = strings.ToLower(strings.TrimSpace(req.Email))
	c.Phone = trimmedOrNil(req.Phone)
	c.Role = trimmedOrNil(req.Role)
	c.Notes = trimmedOrNil(req.Notes)
}
