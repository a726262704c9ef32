package service

import (
	"errors"
	"strings"

	"github.com/modelsnapper/snapper_go_server/internal/model"
	"github.com/modelsnapper/snapper_go_server/internal/model/dto"
	"github.com/modelsnapper/snapper_go_server/internal/pkg/email"
	"github.com/modelsnapper/snapper_go_server/internal/repository"
)

var ErrInvalidDomain = errors.New("invalid domain")

type FeedbackService struct {
	feedbackRepo *repository.FeedbackRepository
}

func NewFeedbackService(feedbackRepo *repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

// SubmitFeedback stores a user's rating and comment.
func (s *FeedbackService) SubmitFeedback(userID int64, req *dto.FeedbackRequest) error {
	return s.feedbackRepo.CreateFeedback(&model.Feedback{
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
}

// CaptureLead records a marketing signup. Resubmitting an email is a no-op.
func (s *FeedbackService) CaptureLead(req *dto.LeadRequest) error {
	address := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.feedbackRepo.ExistsLeadByEmail(address)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = s.feedbackRepo.CreateLead(&model.Lead{
		Email:  address,
		Source: req.Source,
	})
	if err != nil && isDuplicateKey(err) {
		return nil
	}
	return err
}

// CheckDomain reports whether a domain can receive mail. A full email address
// is accepted too; everything before the last "@" is ignored.
func (s *FeedbackService) CheckDomain(input string) (*dto.CheckDomainResponse, error) {
	domain := input
	if at := strings.LastIndex(input, "@"); at >= 0 {
		domain = input[at+1:]
	}
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" || !strings.Contains(domain, ".") {
		return nil, ErrInvalidDomain
	}

	return &dto.CheckDomainResponse{Valid: email.ValidDomain(domain)}, nil
}

// ListFeedback returns submitted feedback for admin review, newest first.
func (s *FeedbackService) ListFeedback(page, pageSize int) ([]model.Feedback, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.feedbackRepo.ListFeedback(page, pageSize)
}

// ListLeads returns captured leads for admin review, newest first.
func (s *FeedbackService) ListLeads(page, pageSize int) ([]model.Lead, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.feedbackRepo.ListLeads(page, pageSize)
}
