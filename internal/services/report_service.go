package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/storage"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrInvalidTransition = errors.New("report cannot move to this status")
	ErrProtocolTooShort  = errors.New("protocol must have at least 5 characters")
	ErrInvalidStatus     = errors.New("invalid status: must be pending, in_review or answered")
)

const protocolAttempts = 5

// AttachmentFile is an uploaded file not yet stored.
type AttachmentFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type ReportService struct {
	db                 *gorm.DB
	files              storage.FileStore
	maxAttachmentBytes int64
	loc                *time.Location
	now                func() time.Time
}

func NewReportService(db *gorm.DB, files storage.FileStore, maxAttachmentBytes int64, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		db:                 db,
		files:              files,
		maxAttachmentBytes: maxAttachmentBytes,
		loc:                loc,
		now:                time.Now,
	}
}

// CreateReport stores a public report and its attachments. Attachments that
// are too large or fail to upload are skipped and listed in the response.
func (s *ReportService) CreateReport(ctx context.Context, req *dto.CreateReportRequest, files []AttachmentFile) (*dto.ReportCreatedResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.ReporterName = strings.TrimSpace(req.ReporterName)
	req.ReporterEmail = strings.TrimSpace(req.ReporterEmail)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var companies int64
	if err := s.db.WithContext(ctx).Model(&models.Company{}).Where("id = ?", req.CompanyID).Count(&companies).Error; err != nil {
		return nil, fmt.Errorf("failed to check company: %w", err)
	}
	if companies == 0 {
		return nil, ErrCompanyNotFound
	}

	report := models.Report{
		ID:          uuid.New(),
		CompanyID:   req.CompanyID,
		Title:       req.Title,
		Description: req.Description,
		Anonymous:   req.Anonymous,
		Status:      models.ReportStatusPending,
	}
	if !req.Anonymous {
		report.ReporterName = trimmedOrNil(&req.ReporterName)
		report.ReporterEmail = trimmedOrNil(&req.ReporterEmail)
	}

	var err error
	for attempt := 0; attempt < protocolAttempts; attempt++ {
		now := s.now()
		if report.Protocol, err = GenerateProtocol(now); err != nil {
			return nil, err
		}
		report.CreatedAt, report.UpdatedAt = now, now
		err = s.db.WithContext(ctx).Omit("Company", "Attachments").Create(&report).Error
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		slog.Warn("protocol collision, regenerating", "protocol", report.Protocol, "attempt", attempt+1)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	resp := &dto.ReportCreatedResponse{Protocol: report.Protocol, CreatedAt: report.CreatedAt}
	for _, f := range files {
		if err := s.storeAttachment(ctx, report.ID, f); err != nil {
			slog.Warn("attachment skipped", "report_id", report.ID.String(), "file", f.Name, "error", err)
			resp.SkippedFiles = append(resp.SkippedFiles, f.Name)
			continue
		}
		resp.Attachments++
	}

	slog.Info("report created", "report_id", report.ID.String(), "protocol", report.Protocol, "attachments", resp.Attachments)
	return resp, nil
}

func (s *ReportService) storeAttachment(ctx context.Context, reportID uuid.UUID, f AttachmentFile) error {
	if s.files == nil {
		return errors.New("attachment storage is not configured")
	}
	if s.maxAttachmentBytes > 0 && f.Size > s.maxAttachmentBytes {
		return fmt.Errorf("file is larger than %d bytes", s.maxAttachmentBytes)
	}

	suffix, err := randomString(base36Alphabet, 6)
	if err != nil {
		return err
	}
	remotePath := fmt.Sprintf("anexos/%s/%d_%s%s", reportID, s.now().UnixMilli(), suffix, strings.ToLower(filepath.Ext(f.Name)))

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer rc.Close()

	if err := s.files.Upload(remotePath, rc); err != nil {
		return err
	}

	attachment := models.Attachment{
		ID:          uuid.New(),
		ReportID:    reportID,
		StoragePath: remotePath,
		URL:         s.files.URL(remotePath),
		FileName:    filepath.Base(f.Name),
		MimeType:    f.ContentType,
		SizeBytes:   f.Size,
	}
	if err := s.db.WithContext(ctx).Create(&attachment).Error; err != nil {
		if delErr := s.files.Delete(remotePath); delErr != nil {
			slog.Warn("failed to remove orphaned attachment", "path", remotePath, "error", delErr)
		}
		return fmt.Errorf("failed to record attachment: %w", err)
	}
	return nil
}

// LookupByProtocol returns the public view of a report. Reporter contact
// details are only shown for identified reports.
func (s *ReportService) LookupByProtocol(ctx context.Context, protocol string) (*dto.ProtocolLookupResponse, error) {
	protocol = NormalizeProtocol(protocol)
	if len(protocol) < 5 {
		return nil, ErrProtocolTooShort
	}

	var report models.Report
	err := s.db.WithContext(ctx).Preload("Company").Preload("Attachments").
		Where("protocol = ?", protocol).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	resp := &dto.ProtocolLookupResponse{
		Protocol:    report.Protocol,
		Status:      report.Status,
		Title:       report.Title,
		Description: report.Description,
		CreatedAt:   report.CreatedAt,
		Attachments: make([]dto.PublicAttachment, 0, len(report.Attachments)),
		Replies:     decodeLedger(nil, s.loc, s.now()),
	}
	if report.Company != nil {
		resp.CompanyName = report.Company.LegalName
	}
	if !report.Anonymous {
		resp.ReporterName = report.ReporterName
	}
	for _, a := range report.Attachments {
		resp.Attachments = append(resp.Attachments, dto.PublicAttachment{FileName: a.FileName, URL: a.URL})
	}

	var l models.ReplyLedger
	err = s.db.WithContext(ctx).Where("report_id = ?", report.ID).Limit(1).Find(&l).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}
	if l.ID != uuid.Nil {
		resp.Replies = decodeLedger(&l, s.loc, s.now())
	}
	return resp, nil
}

func (s *ReportService) ListReports(ctx context.Context, filter dto.ReportFilter) ([]models.Report, int64, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}

	var reports []models.Report
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Report{}).Scopes(tenant.ForCompany(filter.CompanyID))
	if filter.Status != "" {
		query = query.Where("reports.status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Joins("LEFT JOIN companies ON companies.id = reports.company_id").
			Where("reports.protocol ILIKE ? OR reports.title ILIKE ? OR companies.legal_name ILIKE ?", like, like, like)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	err := query.Preload("Company").
		Order("reports.created_at DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

func (s *ReportService) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := s.db.WithContext(ctx).Preload("Company").Preload("Attachments").First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return &report, nil
}

// UpdateStatus applies a manual status change. Admins can only move a
// pending report to in_review; answered and pending follow from replies.
func (s *ReportService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Report, error) {
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}
	if status != models.ReportStatusInReview {
		return nil, ErrInvalidTransition
	}
	return s.MarkInReview(ctx, id)
}

// MarkInReview moves a pending report to in_review. Repeating it is a no-op;
// answered reports are rejected.
func (s *ReportService) MarkInReview(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return err
		}
		switch report.Status {
		case models.ReportStatusInReview:
			return nil
		case models.ReportStatusAnswered:
			return ErrInvalidTransition
		}

		now := s.now()
		result := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", id, models.ReportStatusPending).
			Updates(map[string]interface{}{"status": models.ReportStatusInReview, "updated_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		report.Status, report.UpdatedAt = models.ReportStatusInReview, now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// DeleteReport removes a report with its replies and attachments. Stored
// files are removed after the transaction commits; failures are only logged.
func (s *ReportService) DeleteReport(ctx context.Context, id uuid.UUID) error {
	var attachments []models.Attachment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", id).Find(&attachments).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", id).Delete(&models.ReplyLedger{}).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Report{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReportNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.files != nil {
		for _, a := range attachments {
			if err := s.files.Delete(a.StoragePath); err != nil {
				slog.Warn("failed to delete attachment file", "report_id", id.String(), "path", a.StoragePath, "error", err)
			}
		}
	}
	slog.Info("report deleted", "report_id", id.String(), "attachments", len(attachments))
	return nil
}

func validStatus(status string) bool {
	switch status {
	case models.ReportStatusPending, models.ReportStatusInReview, models.ReportStatusAnswered:
		return true
	}
	return false
}
