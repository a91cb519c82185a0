package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrCNPJTaken       = errors.New("a company with this CNPJ already exists")
	ErrCompanyInUse    = errors.New("company has reports and cannot be deleted")
	ErrSearchTooShort  = errors.New("search term must have at least 3 characters")
)

const companySearchLimit = 5

type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

// Search backs the public report form. Terms containing digits are matched
// against the CNPJ, anything else against the legal name.
func (s *CompanyService) Search(ctx context.Context, q string) ([]dto.CompanySummary, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < 3 {
		return nil, ErrSearchTooShort
	}

	results := make([]dto.CompanySummary, 0, companySearchLimit)
	err := s.db.WithContext(ctx).Model(&models.Company{}).
		Select("id", "legal_name", "cnpj").
		Scopes(matchCompany(q)).
		Order("legal_name ASC").
		Limit(companySearchLimit).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}
	return results, nil
}

func (s *CompanyService) List(ctx context.Context, search string, limit, offset int) ([]models.Company, int64, error) {
	var companies []models.Company
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Company{})
	if search = strings.TrimSpace(search); search != "" {
		query = query.Scopes(matchCompany(search))
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}
	if err := query.Order("legal_name ASC").Limit(limit).Offset(offset).Find(&companies).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, total, nil
}

func (s *CompanyService) Get(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := s.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	return &company, nil
}

func (s *CompanyService) Create(ctx context.Context, req *dto.CompanyRequest) (*models.Company, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	company := models.Company{ID: uuid.New()}
	applyCompanyRequest(&company, req)

	var count int64
	s.db.WithContext(ctx).Model(&models.Company{}).Where("cnpj = ?", company.CNPJ).Count(&count)
	if count > 0 {
		return nil, ErrCNPJTaken
	}

	if err := s.db.WithContext(ctx).Create(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCNPJTaken
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return &company, nil
}

func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, req *dto.CompanyRequest) (*models.Company, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	company, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyCompanyRequest(company, req)

	var count int64
	s.db.WithContext(ctx).Model(&models.Company{}).Where("cnpj = ? AND id <> ?", company.CNPJ, id).Count(&count)
	if count > 0 {
		return nil, ErrCNPJTaken
	}

	if err := s.db.WithContext(ctx).Save(company).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCNPJTaken
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return company, nil
}

// Delete removes a company and its contacts. Companies with reports are kept.
func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reports int64
		if err := tx.Model(&models.Report{}).Where("company_id = ?", id).Count(&reports).Error; err != nil {
			return err
		}
		if reports > 0 {
			return ErrCompanyInUse
		}
		if err := tx.Where("company_id = ?", id).Delete(&models.Contact{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Company{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCompanyNotFound
		}
		return nil
	})
}

func applyCompanyRequest(c *models.Company, req *dto.CompanyRequest) {
	c.LegalName = strings.TrimSpace(req.LegalName)
	c.CNPJ = digitsOnly(req.CNPJ)
	c.StateRegistration = trimmedOrNil(req.StateRegistration)
	c.Street = strings.TrimSpace(req.Street)
	c.Number = strings.TrimSpace(req.Number)
	c.District = strings.TrimSpace(req.District)
	c.City = strings.TrimSpace(req.City)
	c.State = strings.ToUpper(strings.TrimSpace(req.State))
	c.ZipCode = digitsOnly(req.ZipCode)
}

func matchCompany(q string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if digits := digitsOnly(q); digits != "" {
			return db.Where("cnpj ILIKE ?", "%"+digits+"%")
		}
		return db.Where("legal_name ILIKE ?", "%"+q+"%")
	}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
