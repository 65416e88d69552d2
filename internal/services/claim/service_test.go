package claim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainErrors "reclaim/internal/errors"
	"reclaim/internal/models"
	"reclaim/internal/repositories"
	"reclaim/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeStore records created claims, enforces the single-active-claim rule the
// way the repository does, and can be primed to reject the first N creates
// with a chosen error.
type fakeStore struct {
	mu        sync.Mutex
	nextID    uint
	created   []*models.Claim
	tokens    map[uint]string
	failsLeft int
	failWith  error
	codesSeen map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, tokens: make(map[uint]string), codesSeen: make(map[string]bool)}
}

func (f *fakeStore) CreateForReceipt(claim *models.Claim) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failsLeft > 0 {
		f.failsLeft--
		return f.failWith
	}
	for _, c := range f.created {
		if c.ReceiptID == claim.ReceiptID && c.IsActive() {
			return repositories.ErrActiveClaimExists
		}
	}
	if f.codesSeen[claim.ClaimCode] {
		return repositories.ErrDuplicateCode
	}
	f.codesSeen[claim.ClaimCode] = true
	claim.ID = f.nextID
	f.nextID++
	f.created = append(f.created, claim)
	return nil
}

func (f *fakeStore) UpdateToken(id uint, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[id] = token
	return nil
}

func (f *fakeStore) TransitionState(id uint, fromState string, updates map[string]interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.created {
		if c.ID == id && c.State == fromState {
			if s, ok := updates["state"].(string); ok {
				c.State = s
			}
			return true, nil
		}
	}
	return false, nil
}

type fakeReceiptSource struct {
	receipts map[uint]*models.Receipt
}

func (f *fakeReceiptSource) GetByID(id uint) (*models.Receipt, error) {
	if r, ok := f.receipts[id]; ok {
		return r, nil
	}
	return nil, repositories.ErrNotFound
}

type fakeSigner struct {
	calls int
	err   error
}

func (f *fakeSigner) Sign(claimID, receiptID uint) (string, time.Time, error) {
	f.calls++
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	return "signed-token", time.Now().Add(models.ClaimValidity), nil
}

func testReceipts() *fakeReceiptSource {
	return &fakeReceiptSource{receipts: map[uint]*models.Receipt{
		7: {OwnerID: 1, Merchant: "IKEA", Total: 104.98},
	}}
}

func TestIssueHappyPath(t *testing.T) {
	store := newFakeStore()
	signer := &fakeSigner{}
	svc := NewService(store, testReceipts(), signer)

	result, err := svc.Issue(context.Background(), 1, 7, models.ClaimTypeReturn)
	require.NoError(t, err)

	assert.Len(t, result.Claim.ClaimCode, utils.ClaimCodeLength)
	assert.Regexp(t, `^\d{6}$`, result.Pin)
	assert.Equal(t, "signed-token", result.Token)
	assert.NotEmpty(t, result.QRPNG)
	assert.Equal(t, models.ClaimStateIssued, result.Claim.State)
	assert.Equal(t, 104.98, result.Claim.OriginalAmount)
	assert.WithinDuration(t, time.Now().Add(models.ClaimValidity), result.Claim.ExpiresAt, time.Minute)
	assert.Equal(t, 1, signer.calls)
	assert.Equal(t, "signed-token", store.tokens[result.Claim.ID])
}

func TestIssueStoresPinAsHashOnly(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testReceipts(), &fakeSigner{})

	result, err := svc.Issue(context.Background(), 1, 7, models.ClaimTypeReturn)
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	stored := store.created[0]
	assert.NotEqual(t, result.Pin, stored.PinHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PinHash), []byte(result.Pin)))
}

func TestIssueUnknownReceipt(t *testing.T) {
	svc := NewService(newFakeStore(), testReceipts(), &fakeSigner{})

	_, err := svc.Issue(context.Background(), 1, 99, models.ClaimTypeReturn)
	assert.ErrorIs(t, err, domainErrors.ErrReceiptNotFound)
}

func TestIssueForeignReceiptLooksLikeNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), testReceipts(), &fakeSigner{})

	// Owner 2 does not own receipt 7; the response must not reveal that the
	// receipt exists.
	_, err := svc.Issue(context.Background(), 2, 7, models.ClaimTypeReturn)
	assert.ErrorIs(t, err, domainErrors.ErrReceiptNotFound)
}

func TestIssueInvalidClaimType(t *testing.T) {
	svc := NewService(newFakeStore(), testReceipts(), &fakeSigner{})

	_, err := svc.Issue(context.Background(), 1, 7, "loan")
	var derr *domainErrors.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "VALIDATION_ERROR", derr.Code)
}

func TestIssueActiveClaimConflict(t *testing.T) {
	store := newFakeStore()
	store.failsLeft = 1
	store.failWith = repositories.ErrActiveClaimExists
	svc := NewService(store, testReceipts(), &fakeSigner{})

	_, err := svc.Issue(context.Background(), 1, 7, models.ClaimTypeWarranty)
	assert.ErrorIs(t, err, domainErrors.ErrClaimConflict)
}

func TestIssueRetriesOnCodeCollision(t *testing.T) {
	store := newFakeStore()
	store.failsLeft = 2
	store.failWith = repositories.ErrDuplicateCode
	svc := NewService(store, testReceipts(), &fakeSigner{})

	result, err := svc.Issue(context.Background(), 1, 7, models.ClaimTypeReturn)
	require.NoError(t, err)
	assert.Len(t, result.Claim.ClaimCode, utils.ClaimCodeLength)
}

func TestIssueSigningFailureDiscardsClaim(t *testing.T) {
	store := newFakeStore()
	signer := &fakeSigner{err: errors.New("signing key unavailable")}
	svc := NewService(store, testReceipts(), signer)

	_, err := svc.Issue(context.Background(), 1, 7, models.ClaimTypeReturn)
	require.Error(t, err)

	// The committed claim must not stay issued: its PIN was never delivered,
	// and leaving it active would block reissue for the whole validity window.
	require.Len(t, store.created, 1)
	assert.Equal(t, models.ClaimStateExpired, store.created[0].State)

	// A fresh issue for the same receipt now succeeds.
	signer.err = nil
	result, err := svc.Issue(context.Background(), 1, 7, models.ClaimTypeReturn)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStateIssued, result.Claim.State)
}

func TestConcurrentIssueSingleActiveClaim(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testReceipts(), &fakeSigner{})

	const callers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, conflicts := 0, 0

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Issue(context.Background(), 1, 7, models.ClaimTypeReturn)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, domainErrors.ErrClaimConflict)
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, callers-1, conflicts)
	require.Len(t, store.created, 1)
}

func TestIssueGivesUpAfterRepeatedCollisions(t *testing.T) {
	store := newFakeStore()
	store.failsLeft = maxCodeRetries + 1
	store.failWith = repositories.ErrDuplicateCode
	svc := NewService(store, testReceipts(), &fakeSigner{})

	_, err := svc.Issue(context.Background(), 1, 7, models.ClaimTypeReturn)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainErrors.ErrClaimConflict)
}
