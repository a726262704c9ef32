package worker

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/modelsnapper/snapper_go_server/config"
	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/genapi"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/oss"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/pubsub"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/queue"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
	"github.com/modelsnapper/snapper_go_server/internal/service"
)

type Processor struct {
	renderRepo    *repository.RenderRepository
	avatarRepo    *repository.AvatarRepository
	profileRepo   *repository.ProfileRepository
	userRepo      *repository.UserRepository
	creditService *service.CreditService
	genClient     *genapi.Client
	ossClient     *oss.Client // nil keeps provider-hosted result URLs
	publisher     *pubsub.Publisher
	cfg           *config.Config
}

func NewProcessor(
	renderRepo *repository.RenderRepository,
	avatarRepo *repository.AvatarRepository,
	profileRepo *repository.ProfileRepository,
	userRepo *repository.UserRepository,
	creditService *service.CreditService,
	genClient *genapi.Client,
	ossClient *oss.Client,
	publisher *pubsub.Publisher,
	cfg *config.Config,
) *Processor {
	return &Processor{
		renderRepo:    renderRepo,
		avatarRepo:    avatarRepo,
		profileRepo:   profileRepo,
		userRepo:      userRepo,
		creditService: creditService,
		genClient:     genClient,
		ossClient:     ossClient,
		publisher:     publisher,
		cfg:           cfg,
	}
}

// Process runs one queued render end to end: submit to the generation
// provider, wait, store the result. A failed job is marked failed and its
// credit refunded exactly once.
func (p *Processor) Process(ctx context.Context, msg *queue.RenderMessage) error {
	job, err := p.renderRepo.GetByID(msg.RenderID)
	if err != nil {
		return fmt.Errorf("failed to get render job: %w", err)
	}
	if job.Status != model.RenderQueued {
		log.Printf("Render %d already %s, skipping", job.ID, job.Status)
		return nil
	}

	now := time.Now().UTC()
	job.Status = model.RenderProcessing
	job.StartedAt = &now
	if err := p.renderRepo.Update(job); err != nil {
		return fmt.Errorf("failed to mark render processing: %w", err)
	}

	publishProgress := func(step, status, errMsg string) {
		err := p.publisher.PublishProgress(ctx, &pubsub.ProgressMessage{
			UserID:   msg.UserID,
			RenderID: msg.RenderID,
			Status:   status,
			Step:     step,
			Error:    errMsg,
		})
		if err != nil {
			log.Printf("Render %d: progress publish failed: %v", msg.RenderID, err)
		}
	}

	handleError := func(step string, err error) error {
		completedAt := time.Now().UTC()
		job.Status = model.RenderFailed
		job.ErrorMessage = err.Error()
		job.CompletedAt = &completedAt
		if uerr := p.renderRepo.Update(job); uerr != nil {
			log.Printf("Render %d: failed to persist failure: %v", job.ID, uerr)
		}
		p.refundOnce(job)
		publishProgress(step, "failed", err.Error())
		return err
	}

	publishProgress(pubsub.StepSubmitting, "processing", "")

	submitReq, err := p.buildSubmitRequest(msg)
	if err != nil {
		return handleError(pubsub.StepSubmitting, err)
	}

	providerJob, err := p.genClient.Submit(ctx, submitReq)
	if err != nil {
		return handleError(pubsub.StepSubmitting, fmt.Errorf("submit failed: %w", err))
	}
	job.ProviderJobID = providerJob.ID
	p.renderRepo.Update(job)

	publishProgress(pubsub.StepGenerating, "processing", "")

	finished, err := p.genClient.WaitForResult(ctx, providerJob.ID)
	if err != nil {
		return handleError(pubsub.StepGenerating, err)
	}

	publishProgress(pubsub.StepUploading, "processing", "")

	resultURL, err := p.storeResult(job.ID, finished.ResultURL)
	if err != nil {
		return handleError(pubsub.StepUploading, err)
	}

	completedAt := time.Now().UTC()
	job.Status = model.RenderCompleted
	job.ResultURL = resultURL
	job.CompletedAt = &completedAt
	if err := p.renderRepo.Update(job); err != nil {
		return fmt.Errorf("failed to persist render result: %w", err)
	}

	publishProgress(pubsub.StepDone, "completed", "")
	log.Printf("Render %d completed in %s", job.ID, completedAt.Sub(now).Round(time.Second))
	return nil
}

// buildSubmitRequest resolves the render target into provider inputs. A human
// model renders against their account picture; a catalog avatar prefers its
// provider-native model id over a raw image.
func (p *Processor) buildSubmitRequest(msg *queue.RenderMessage) (*genapi.SubmitRequest, error) {
	req := &genapi.SubmitRequest{GarmentURL: msg.GarmentURL}

	switch msg.TargetType {
	case model.RenderTargetModel:
		profile, err := p.profileRepo.GetModelByID(msg.ModelID)
		if err != nil {
			return nil, fmt.Errorf("model profile %d not found: %w", msg.ModelID, err)
		}
		user, err := p.userRepo.GetByID(profile.UserID)
		if err != nil {
			return nil, fmt.Errorf("model user not found: %w", err)
		}
		if user.AvatarURL == "" {
			return nil, fmt.Errorf("model %d has no reference image", msg.ModelID)
		}
		req.ModelImageURL = user.AvatarURL
	case model.RenderTargetAvatar:
		avatar, err := p.avatarRepo.GetByID(msg.AvatarID)
		if err != nil {
			return nil, fmt.Errorf("avatar %d not found: %w", msg.AvatarID, err)
		}
		if avatar.ProviderModelID != "" {
			req.ProviderModelID = avatar.ProviderModelID
		} else {
			req.ModelImageURL = avatar.ImageURL
		}
	default:
		return nil, fmt.Errorf("unknown target type %q", msg.TargetType)
	}

	return req, nil
}

// storeResult re-hosts the provider's result image so render history outlives
// the provider's retention window. Without object storage the provider URL is
// kept as-is.
func (p *Processor) storeResult(renderID int64, providerURL string) (string, error) {
	if p.ossClient == nil {
		return providerURL, nil
	}

	resp, err := http.Get(providerURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("result fetch returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read result: %w", err)
	}

	ext := path.Ext(strings.SplitN(path.Base(providerURL), "?", 2)[0])
	if ext == "" {
		ext = ".png"
	}

	return p.ossClient.UploadRenderResult(renderID, data, ext)
}

// refundOnce returns the job's credit, guarded so a retried failure cannot
// refund twice.
func (p *Processor) refundOnce(job *model.RenderJob) {
	rows, err := p.renderRepo.MarkRefunded(job.ID)
	if err != nil {
		log.Printf("Render %d: refund guard failed: %v", job.ID, err)
		return
	}
	if rows == 0 {
		return
	}
	if _, err := p.creditService.Refund(job.UserID, 1, model.CreditReasonRefund); err != nil {
		log.Printf("Render %d: credit refund failed: %v", job.ID, err)
	}
}
