package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/oss"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/queue"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
)

var (
	ErrRenderNotFound  = errors.New("render job not found")
	ErrNoConsentGrant  = errors.New("no approved consent for this model")
	ErrUnknownTarget   = errors.New("unknown render target")
	ErrAvatarNotFound  = errors.New("avatar not found")
	ErrGarmentRequired = errors.New("garment image required")
)

const renderCost = 1

type RenderService struct {
	renderRepo     *repository.RenderRepository
	avatarRepo     *repository.AvatarRepository
	profileRepo    *repository.ProfileRepository
	creditService  *CreditService
	consentService *ConsentService
	ossClient      *oss.Client
	queue          *queue.Queue
	cfg            *config.Config
}

func NewRenderService(
	renderRepo *repository.RenderRepository,
	avatarRepo *repository.AvatarRepository,
	profileRepo *repository.ProfileRepository,
	creditService *CreditService,
	consentService *ConsentService,
	ossClient *oss.Client,
	q *queue.Queue,
	cfg *config.Config,
) *RenderService {
	return &RenderService{
		renderRepo:     renderRepo,
		avatarRepo:     avatarRepo,
		profileRepo:    profileRepo,
		creditService:  creditService,
		consentService: consentService,
		ossClient:      ossClient,
		queue:          q,
		cfg:            cfg,
	}
}

// Submit validates the target, charges one credit and enqueues the job.
// A human model target requires an APPROVED consent grant; an avatar target
// only needs to exist in the catalog.
func (s *RenderService) Submit(ctx context.Context, userID int64, targetType string, targetID int64, garment []byte, garmentExt string) (*dto.CreateRenderResponse, error) {
	if len(garment) == 0 {
		return nil, ErrGarmentRequired
	}

	job := &model.RenderJob{
		UserID:     userID,
		TargetType: targetType,
		Status:     model.RenderQueued,
	}

	switch targetType {
	case model.RenderTargetModel:
		target, err := s.profileRepo.GetModelByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrConsentNotFound
			}
			return nil, err
		}
		approved, err := s.consentService.HasApprovedGrant(userID, target.ID)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, ErrNoConsentGrant
		}
		job.ModelID = &target.ID
	case model.RenderTargetAvatar:
		avatar, err := s.avatarRepo.GetByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAvatarNotFound
			}
			return nil, err
		}
		job.AvatarID = &avatar.ID
	default:
		return nil, ErrUnknownTarget
	}

	if s.ossClient == nil {
		return nil, errors.New("object storage is not configured")
	}
	garmentURL, err := s.ossClient.UploadGarment(userID, garment, garmentExt)
	if err != nil {
		return nil, err
	}
	job.GarmentURL = garmentURL

	// the charge comes before the enqueue; a failed enqueue refunds it
	balance, err := s.creditService.Consume(userID, renderCost, model.CreditReasonRender)
	if err != nil {
		return nil, err
	}

	if err := s.renderRepo.Create(job); err != nil {
		s.refundSubmit(userID, job.ID)
		return nil, err
	}

	msg := &queue.RenderMessage{
		RenderID:   job.ID,
		UserID:     userID,
		TargetType: targetType,
		GarmentURL: garmentURL,
	}
	if job.ModelID != nil {
		msg.ModelID = *job.ModelID
	}
	if job.AvatarID != nil {
		msg.AvatarID = *job.AvatarID
	}

	if err := s.queue.Push(ctx, msg); err != nil {
		s.failJob(job.ID, "failed to enqueue job")
		s.refundSubmit(userID, job.ID)
		return nil, err
	}

	return &dto.CreateRenderResponse{
		RenderID: job.ID,
		Status:   job.Status,
		Credits:  balance,
	}, nil
}

// Get returns a render job; only its owner may read it.
func (s *RenderService) Get(userID, renderID int64) (*dto.RenderInfo, error) {
	job, err := s.renderRepo.GetByID(renderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRenderNotFound
		}
		return nil, err
	}
	if job.UserID != userID {
		return nil, ErrRenderNotFound
	}
	return buildRenderInfo(job), nil
}

// List returns the caller's render history, newest first.
func (s *RenderService) List(userID int64, query *dto.RenderListQuery) ([]dto.RenderInfo, int64, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)

	jobs, total, err := s.renderRepo.ListByUser(userID, query.Status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]dto.RenderInfo, 0, len(jobs))
	for i := range jobs {
		infos = append(infos, *buildRenderInfo(&jobs[i]))
	}
	return infos, total, nil
}

func (s *RenderService) failJob(renderID int64, message string) {
	err := s.renderRepo.UpdateFields(renderID, map[string]interface{}{
		"status":        model.RenderFailed,
		"error_message": message,
	})
	if err != nil {
		log.Printf("Failed to mark render %d failed: %v", renderID, err)
	}
}

func (s *RenderService) refundSubmit(userID, renderID int64) {
	if renderID != 0 {
		rows, err := s.renderRepo.MarkRefunded(renderID)
		if err != nil || rows == 0 {
			return
		}
	}
	if _, err := s.creditService.Refund(userID, renderCost, model.CreditReasonRefund); err != nil {
		log.Printf("Failed to refund render credit for user %d: %v", userID, err)
	}
}

func buildRenderInfo(job *model.RenderJob) *dto.RenderInfo {
	info := &dto.RenderInfo{
		ID:         job.ID,
		TargetType: job.TargetType,
		ModelID:    job.ModelID,
		AvatarID:   job.AvatarID,
		GarmentURL: job.GarmentURL,
		ResultURL:  job.ResultURL,
		Status:     job.Status,
		Error:      job.ErrorMessage,
		CreatedAt:  job.CreatedAt.Format(time.RFC3339),
	}
	if job.CompletedAt != nil {
		info.CompletedAt = job.CompletedAt.Format(time.RFC3339)
	}
	return info
}
