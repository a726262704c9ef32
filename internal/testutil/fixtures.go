package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/modelsnapper/snapper_go_server/internal/model"
)

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

type UserOption func(*model.User)

func WithEmail(email string) UserOption {
	return func(u *model.User) { u.Email = email }
}

func WithRole(role string) UserOption {
	return func(u *model.User) { u.Role = &role }
}

func WithCredits(credits int) UserOption {
	return func(u *model.User) { u.Credits = credits }
}

func WithPlan(planID, planName string, renewAt *time.Time) UserOption {
	return func(u *model.User) {
		u.PlanID = planID
		u.PlanName = planName
		u.CreditsRenewAt = renewAt
	}
}

func WithAvatarURL(url string) UserOption {
	return func(u *model.User) { u.AvatarURL = url }
}

// TestUser inserts a user with sane defaults, customized by options.
func TestUser(t *testing.T, db *gorm.DB, opts ...UserOption) *model.User {
	t.Helper()

	n := nextSeq()
	user := &model.User{
		ExternalID: fmt.Sprintf("ext-%d", n),
		Email:      fmt.Sprintf("user%d@example.com", n),
		FirstName:  "Test",
		LastName:   "User",
		PlanID:     "free",
		PlanName:   "Free",
		Credits:    10,
	}
	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// TestBusinessProfile inserts a business profile for the user.
func TestBusinessProfile(t *testing.T, db *gorm.DB, userID int64) *model.BusinessProfile {
	t.Helper()

	p := &model.BusinessProfile{
		UserID:      userID,
		CompanyName: fmt.Sprintf("Acme %d", nextSeq()),
		Website:     "https://acme.example.com",
		Industry:    "apparel",
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create business profile: %v", err)
	}
	return p
}

// TestModelProfile inserts a model profile for the user.
func TestModelProfile(t *testing.T, db *gorm.DB, userID int64) *model.ModelProfile {
	t.Helper()

	p := &model.ModelProfile{
		UserID:    userID,
		StageName: fmt.Sprintf("Model %d", nextSeq()),
		Bio:       "test bio",
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create model profile: %v", err)
	}
	return p
}

type ConsentOption func(*model.ConsentRequest)

func WithConsentStatus(status string) ConsentOption {
	return func(r *model.ConsentRequest) { r.Status = status }
}

func WithConsentExpiry(expiresAt time.Time) ConsentOption {
	return func(r *model.ConsentRequest) { r.ExpiresAt = &expiresAt }
}

// TestConsent inserts a consent request between two profiles.
func TestConsent(t *testing.T, db *gorm.DB, businessID, modelID int64, opts ...ConsentOption) *model.ConsentRequest {
	t.Helper()

	req := &model.ConsentRequest{
		BusinessID:  businessID,
		ModelID:     modelID,
		Status:      model.ConsentPending,
		Message:     "we would love to feature you",
		RequestedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(req)
	}

	if err := db.Create(req).Error; err != nil {
		t.Fatalf("failed to create consent request: %v", err)
	}
	return req
}

// TestAvatar inserts a catalog avatar.
func TestAvatar(t *testing.T, db *gorm.DB) *model.Avatar {
	t.Helper()

	avatar := &model.Avatar{
		Name:     fmt.Sprintf("Avatar %d", nextSeq()),
		Gender:   "female",
		BodyType: "athletic",
		SkinTone: "medium",
		ImageURL: "https://cdn.example.com/avatars/1.png",
	}
	if err := db.Create(avatar).Error; err != nil {
		t.Fatalf("failed to create avatar: %v", err)
	}
	return avatar
}

// TestRenderJob inserts a queued render job targeting an avatar.
func TestRenderJob(t *testing.T, db *gorm.DB, userID, avatarID int64) *model.RenderJob {
	t.Helper()

	job := &model.RenderJob{
		UserID:     userID,
		TargetType: model.RenderTargetAvatar,
		AvatarID:   &avatarID,
		GarmentURL: "https://cdn.example.com/garments/1.png",
		Status:     model.RenderQueued,
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("failed to create render job: %v", err)
	}
	return job
}
