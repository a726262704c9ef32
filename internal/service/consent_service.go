package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/email"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
)

var (
	ErrDuplicateRequest  = errors.New("consent request already exists for this model")
	ErrInvalidTransition = errors.New("request is not pending")
	ErrNotAuthorized     = errors.New("not authorized to act on this request")
	ErrConsentNotFound   = errors.New("consent request not found")
	ErrProfileNotFound   = errors.New("profile not found for this account")
)

type ConsentService struct {
	consentRepo  *repository.ConsentRepository
	profileRepo  *repository.ProfileRepository
	userRepo     *repository.UserRepository
	emailService *email.Service // nil disables notifications
	cfg          *config.Config
}

func NewConsentService(
	consentRepo *repository.ConsentRepository,
	profileRepo *repository.ProfileRepository,
	userRepo *repository.UserRepository,
	emailService *email.Service,
	cfg *config.Config,
) *ConsentService {
	return &ConsentService{
		consentRepo:  consentRepo,
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		emailService: emailService,
		cfg:          cfg,
	}
}

// Create opens a PENDING request from the acting business toward a model.
// The (business, model) pair is unique across all statuses: a second request
// fails with ErrDuplicateRequest and the existing record stays authoritative.
func (s *ConsentService) Create(businessUserID int64, req *dto.CreateConsentRequest) (*dto.ConsentInfo, error) {
	business, err := s.profileRepo.GetBusinessByUserID(businessUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	target, err := s.profileRepo.GetModelByID(req.ModelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsentNotFound
		}
		return nil, err
	}

	if _, err := s.consentRepo.GetByPair(business.ID, target.ID); err == nil {
		return nil, ErrDuplicateRequest
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	request := &model.ConsentRequest{
		BusinessID:  business.ID,
		ModelID:     target.ID,
		Status:      model.ConsentPending,
		Message:     req.Message,
		RequestedAt: now,
	}
	if s.cfg.Consent.ExpireDays > 0 {
		expires := now.Add(time.Duration(s.cfg.Consent.ExpireDays) * 24 * time.Hour)
		request.ExpiresAt = &expires
	}

	if err := s.consentRepo.Create(request); err != nil {
		// two concurrent creates race past the pre-check; the unique index
		// decides and the loser maps to the same duplicate error
		if isDuplicateKey(err) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}

	s.notifyModel(target, business, req.Message)

	return s.buildInfo(request), nil
}

// Approve transitions a PENDING request to APPROVED. Only the target model
// may act, and only while the request is still actionable.
func (s *ConsentService) Approve(requestID, actingUserID int64) (*dto.ConsentInfo, error) {
	return s.decide(requestID, actingUserID, model.ConsentApproved)
}

// Reject transitions a PENDING request to REJECTED.
func (s *ConsentService) Reject(requestID, actingUserID int64) (*dto.ConsentInfo, error) {
	return s.decide(requestID, actingUserID, model.ConsentRejected)
}

func (s *ConsentService) decide(requestID, actingUserID int64, toStatus string) (*dto.ConsentInfo, error) {
	actor, err := s.profileRepo.GetModelByUserID(actingUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}

	request, err := s.consentRepo.GetByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsentNotFound
		}
		return nil, err
	}

	if request.ModelID != actor.ID {
		return nil, ErrNotAuthorized
	}

	stampColumn := "granted_at"
	if toStatus == model.ConsentRejected {
		stampColumn = "rejected_at"
	}

	// conditional update keyed on PENDING and unexpired; of two racing
	// decisions exactly one lands, the other reads the terminal state below
	rows, err := s.consentRepo.Transition(requestID, toStatus, stampColumn, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidTransition
	}

	request, err = s.consentRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}

	s.notifyBusiness(request, actor)

	return s.buildInfo(request), nil
}

// List returns the caller's requests, newest first. Businesses see requests
// they issued, models see requests targeting them.
func (s *ConsentService) List(userID int64, role string, query *dto.ConsentListQuery) ([]dto.ConsentInfo, int64, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)

	var (
		requests []model.ConsentRequest
		total    int64
		err      error
	)

	switch role {
	case model.RoleBusiness:
		business, perr := s.profileRepo.GetBusinessByUserID(userID)
		if perr != nil {
			if errors.Is(perr, gorm.ErrRecordNotFound) {
				return nil, 0, ErrProfileNotFound
			}
			return nil, 0, perr
		}
		requests, total, err = s.consentRepo.ListByBusiness(business.ID, query.Status, page, pageSize)
	case model.RoleModel:
		actor, perr := s.profileRepo.GetModelByUserID(userID)
		if perr != nil {
			if errors.Is(perr, gorm.ErrRecordNotFound) {
				return nil, 0, ErrProfileNotFound
			}
			return nil, 0, perr
		}
		requests, total, err = s.consentRepo.ListByModel(actor.ID, query.Status, page, pageSize)
	default:
		return nil, 0, ErrNotAuthorized
	}
	if err != nil {
		return nil, 0, err
	}

	infos := make([]dto.ConsentInfo, 0, len(requests))
	for i := range requests {
		infos = append(infos, *s.buildInfo(&requests[i]))
	}
	return infos, total, nil
}

// HasApprovedGrant reports whether the business behind userID holds an
// APPROVED request for the model profile.
func (s *ConsentService) HasApprovedGrant(businessUserID, modelID int64) (bool, error) {
	business, err := s.profileRepo.GetBusinessByUserID(businessUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProfileNotFound
		}
		return false, err
	}
	return s.consentRepo.HasApproved(business.ID, modelID)
}

// SweepExpired persists EXPIRED on lapsed PENDING requests.
func (s *ConsentService) SweepExpired() (int64, error) {
	return s.consentRepo.MarkExpired(time.Now().UTC())
}

func (s *ConsentService) buildInfo(r *model.ConsentRequest) *dto.ConsentInfo {
	now := time.Now().UTC()
	info := &dto.ConsentInfo{
		ID:          r.ID,
		BusinessID:  r.BusinessID,
		ModelID:     r.ModelID,
		Status:      r.EffectiveStatus(now),
		Message:     r.Message,
		RequestedAt: r.RequestedAt.Format(time.RFC3339),
	}
	if r.ExpiresAt != nil {
		info.ExpiresAt = r.ExpiresAt.Format(time.RFC3339)
	}
	if r.GrantedAt != nil {
		info.GrantedAt = r.GrantedAt.Format(time.RFC3339)
	}
	if r.RejectedAt != nil {
		info.RejectedAt = r.RejectedAt.Format(time.RFC3339)
	}

	if business, err := s.profileRepo.GetBusinessByID(r.BusinessID); err == nil {
		info.BusinessName = business.CompanyName
	}
	if target, err := s.profileRepo.GetModelByID(r.ModelID); err == nil {
		info.ModelName = target.StageName
	}

	return info
}

// notifyModel emails the target model about a new request. Best effort:
// failures are logged, never rolled back.
func (s *ConsentService) notifyModel(target *model.ModelProfile, business *model.BusinessProfile, message string) {
	if s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(target.UserID)
	if err != nil {
		return
	}
	if err := s.emailService.SendConsentRequested(user.Email, business.CompanyName, message); err != nil {
		log.Printf("Failed to send consent notification to %s: %v", user.Email, err)
	}
}

func (s *ConsentService) notifyBusiness(request *model.ConsentRequest, actor *model.ModelProfile) {
	if s.emailService == nil {
		return
	}
	business, err := s.profileRepo.GetBusinessByID(request.BusinessID)
	if err != nil {
		return
	}
	user, err := s.userRepo.GetByID(business.UserID)
	if err != nil {
		return
	}
	if err := s.emailService.SendConsentDecided(user.Email, actor.StageName, request.Status); err != nil {
		log.Printf("Failed to send decision notification to %s: %v", user.Email, err)
	}
}

// isDuplicateKey detects a unique-index violation across mysql and the
// sqlite test driver.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
