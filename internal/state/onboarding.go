package state

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/boarding-dev/placement-client/pkg/kv"
)

const onboardingKey = "onboarding-draft"

// OnboardingDraft is the saved progress of the multi-step onboarding form.
type OnboardingDraft struct {
	CurrentStep int               `json:"currentStep"`
	Fields      map[string]string `json:"fields"`
	UpdatedAt   string            `json:"updatedAt,omitempty"`
}

// OnboardingStore persists the draft in its own namespace so an abandoned
// session can resume where it left off.
type OnboardingStore struct {
	kv  kv.Store
	now func() time.Time

	mu    sync.Mutex
	draft OnboardingDraft
}

// NewOnboardingStore rehydrates any saved draft.
func NewOnboardingStore(ctx context.Context, backend kv.Store) *OnboardingStore {
	s := &OnboardingStore{
		kv:    backend,
		now:   time.Now,
		draft: OnboardingDraft{Fields: map[string]string{}},
	}

	if backend != nil {
		// storage trouble starts from an empty draft
		if data, err := backend.Get(ctx, onboardingKey); err == nil {
			var d OnboardingDraft
			if json.Unmarshal(data, &d) == nil {
				if d.Fields == nil {
					d.Fields = map[string]string{}
				}
				s.draft = d
			}
		}
	}

	return s
}

// Draft returns a snapshot of the current draft.
func (s *OnboardingStore) Draft() OnboardingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// SetStep records the current step index.
func (s *OnboardingStore) SetStep(ctx context.Context, step int) error {
	s.mu.Lock()
	s.draft.CurrentStep = step
	snap := s.snapshot()
	s.mu.Unlock()
	return s.persist(ctx, snap)
}

// MergeFields overlays form values onto the draft and stamps the save time.
func (s *OnboardingStore) MergeFields(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	for k, v := range values {
		s.draft.Fields[k] = v
	}
	s.draft.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	snap := s.snapshot()
	s.mu.Unlock()
	return s.persist(ctx, snap)
}

// Reset discards the draft entirely.
func (s *OnboardingStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.draft = OnboardingDraft{Fields: map[string]string{}}
	s.mu.Unlock()

	if s.kv == nil {
		return nil
	}
	return s.kv.Delete(ctx, onboardingKey)
}

func (s *OnboardingStore) snapshot() OnboardingDraft {
	fields := make(map[string]string, len(s.draft.Fields))
	for k, v := range s.draft.Fields {
		fields[k] = v
	}
	return OnboardingDraft{CurrentStep: s.draft.CurrentStep, Fields: fields, UpdatedAt: s.draft.UpdatedAt}
}

func (s *OnboardingStore) persist(ctx context.Context, draft OnboardingDraft) error {
	if s.kv == nil {
		return nil
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, onboardingKey, data)
}
