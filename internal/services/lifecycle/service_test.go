package lifecycleservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"docflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) CreateDocument(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) UpdateMeta(ctx context.Context, id string, contentRef, docType, filename *string) (bool, error) {
	args := m.Called(ctx, id, contentRef, docType, filename)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) SetDeleted(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) AppendShared(ctx context.Context, docID string, userID string) (bool, error) {
	args := m.Called(ctx, docID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) AppendSigner(ctx context.Context, docID string, signerID string) (bool, error) {
	args := m.Called(ctx, docID, signerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) SearchAccessible(ctx context.Context, userID string, term string, limit int) ([]*models.Document, error) {
	args := m.Called(ctx, userID, term, limit)
	return args.Get(0).([]*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) RevisionsByDocument(ctx context.Context, docID string) ([]models.Revision, error) {
	args := m.Called(ctx, docID)
	return args.Get(0).([]models.Revision), args.Error(1)
}

func (m *MockDocumentRepository) SignatureRecords(ctx context.Context, docID string) ([]models.SignatureRecord, error) {
	args := m.Called(ctx, docID)
	return args.Get(0).([]models.SignatureRecord), args.Error(1)
}

type MockDocumentIndex struct {
	mock.Mock
}

func (m *MockDocumentIndex) AddReference(ctx context.Context, userID string, docID string) error {
	args := m.Called(ctx, userID, docID)
	return args.Error(0)
}

func (m *MockDocumentIndex) RemoveReference(ctx context.Context, userID string, docID string) error {
	args := m.Called(ctx, userID, docID)
	return args.Error(0)
}

func (m *MockDocumentIndex) RemoveAllReferences(ctx context.Context, docID string) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}

func (m *MockDocumentIndex) UsersReferencing(ctx context.Context, docID string) ([]string, error) {
	args := m.Called(ctx, docID)
	return args.Get(0).([]string), args.Error(1)
}

type MockTeamDirectory struct {
	mock.Mock
}

func (m *MockTeamDirectory) TeamByID(ctx context.Context, teamID string) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(*models.Team), args.Error(1)
}

type MockBlobStorage struct {
	mock.Mock
}

func (m *MockBlobStorage) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStorage) PresignGet(ctx context.Context, ref string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, ref, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStorage) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID string, eventType string, message string, data map[string]string) {
	m.Called(ctx, userID, eventType, message, data)
}

type MockFailureCounter struct {
	mock.Mock
}

func (m *MockFailureCounter) DependencyFailure(component string) {
	m.Called(component)
}

type fixture struct {
	repo     *MockDocumentRepository
	index    *MockDocumentIndex
	teams    *MockTeamDirectory
	blobs    *MockBlobStorage
	cache    *MockCache
	notifier *MockNotifier
	failures *MockFailureCounter
	service  *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     new(MockDocumentRepository),
		index:    new(MockDocumentIndex),
		teams:    new(MockTeamDirectory),
		blobs:    new(MockBlobStorage),
		cache:    new(MockCache),
		notifier: new(MockNotifier),
		failures: new(MockFailureCounter),
	}
	f.service = New(slog.Default(), f.repo, f.index, f.teams, f.blobs, f.cache, f.notifier, f.failures, 15*time.Minute)
	return f
}

func cacheMiss(f *fixture, docID string, doc *models.Document) {
	f.cache.On("Get", mock.Anything, docID).Return("", errors.New("cache miss"))
	f.repo.On("DocumentByID", mock.Anything, docID).Return(doc, nil)
	f.cache.On("Set", mock.Anything, docID, mock.Anything).Return(nil)
}

func TestCreateDocument_Success_WithSigners(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	owner := &models.User{ID: "owner", Role: models.RoleUser}
	params := CreateParams{
		Filename:         "contract.pdf",
		DocType:          "contract",
		Mime:             "application/pdf",
		Size:             4,
		RequireSignature: true,
		Signers:          []string{"s1", "s2", "s1"},
	}

	f.blobs.On("Put", ctx, mock.Anything, mock.Anything, int64(4), "application/pdf").Return("blob-1", nil)
	f.repo.On("CreateDocument", ctx, mock.Anything).Return(nil)
	f.index.On("AddReference", ctx, "owner", mock.Anything).Return(nil)
	f.index.On("AddReference", ctx, "s1", mock.Anything).Return(nil)
	f.index.On("AddReference", ctx, "s2", mock.Anything).Return(nil)
	f.notifier.On("Notify", ctx, "owner", models.NotifyDocumentUpload, mock.Anything, mock.Anything)
	f.notifier.On("Notify", ctx, "s1", models.NotifySignatureRequest, mock.Anything, mock.Anything)
	f.notifier.On("Notify", ctx, "s2", models.NotifySignatureRequest, mock.Anything, mock.Anything)

	doc, err := f.service.CreateDocument(ctx, owner, params, bytes.NewReader([]byte("data")))

	assert.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Equal(t, "blob-1", doc.ContentRef)
	assert.Equal(t, models.SigningPending, doc.SigningStatus)
	assert.Equal(t, []string{"s1", "s2"}, doc.SignersRequired)
	f.repo.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCreateDocument_MissingFilename(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	owner := &models.User{ID: "owner"}

	doc, err := f.service.CreateDocument(ctx, owner, CreateParams{}, bytes.NewReader(nil))

	assert.ErrorIs(t, err, models.ErrInvalidParams)
	assert.Nil(t, doc)
}

func TestCreateDocument_RecordFails_BlobRolledBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	owner := &models.User{ID: "owner"}
	params := CreateParams{Filename: "a.txt", Size: 4}

	f.blobs.On("Put", ctx, mock.Anything, mock.Anything, int64(4), "").Return("blob-1", nil)
	f.repo.On("CreateDocument", ctx, mock.Anything).Return(errors.New("db down"))
	f.blobs.On("Delete", ctx, "blob-1").Return(nil)

	doc, err := f.service.CreateDocument(ctx, owner, params, bytes.NewReader([]byte("data")))

	assert.ErrorIs(t, err, models.ErrInternal)
	assert.Nil(t, doc)
	f.blobs.AssertExpectations(t)
}

func TestShareWithUser_SignatureRequest_ByOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", Filename: "a.txt", Status: models.DocumentActive}
	actor := &models.User{ID: "owner", Role: models.RoleUser}

	cacheMiss(f, "doc1", doc)
	f.repo.On("AppendShared", ctx, "doc1", "bob").Return(true, nil)
	f.repo.On("AppendSigner", ctx, "doc1", "bob").Return(true, nil)
	f.index.On("AddReference", ctx, "bob", "doc1").Return(nil)
	f.notifier.On("Notify", ctx, "bob", models.NotifySignatureRequest, mock.Anything, mock.Anything)
	f.cache.On("Del", ctx, []string{"doc1"}).Return(nil)

	err := f.service.ShareWithUser(ctx, "doc1", "bob", actor, true)

	assert.NoError(t, err)
	f.repo.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestShareWithUser_PlainShare_OwnerForbidden(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", Status: models.DocumentActive}
	actor := &models.User{ID: "owner", Role: models.RoleUser}

	cacheMiss(f, "doc1", doc)

	err := f.service.ShareWithUser(ctx, "doc1", "bob", actor, false)

	assert.ErrorIs(t, err, models.ErrForbidden)
	f.repo.AssertNotCalled(t, "AppendShared", mock.Anything, mock.Anything, mock.Anything)
}

func TestShareWithUser_DeletedDocument(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", IsDeleted: true}
	actor := &models.User{ID: "admin", Role: models.RoleAdmin}

	cacheMiss(f, "doc1", doc)

	err := f.service.ShareWithUser(ctx, "doc1", "bob", actor, false)

	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
}

func TestShareWithTeam_MemberFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", Filename: "a.txt", Status: models.DocumentActive}
	team := &models.Team{ID: "team1", Members: []string{"m1", "m2"}}
	actor := &models.User{ID: "admin", Role: models.RoleAdmin}

	cacheMiss(f, "doc1", doc)
	f.teams.On("TeamByID", ctx, "team1").Return(team, nil)
	f.repo.On("AppendShared", ctx, "doc1", "m1").Return(false, errors.New("db error"))
	f.failures.On("DependencyFailure", "team_share")
	f.repo.On("AppendShared", ctx, "doc1", "m2").Return(true, nil)
	f.index.On("AddReference", ctx, "m2", "doc1").Return(nil)
	f.notifier.On("Notify", ctx, "m2", models.NotifyDocumentShared, mock.Anything, mock.Anything)
	f.cache.On("Del", ctx, []string{"doc1"}).Return(nil)

	err := f.service.ShareWithTeam(ctx, "doc1", "team1", actor, false)

	assert.NoError(t, err)
	f.repo.AssertExpectations(t)
	f.failures.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestShareWithTeam_EmptyTeam(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", Status: models.DocumentActive}
	team := &models.Team{ID: "team1", Members: []string{}}
	actor := &models.User{ID: "admin", Role: models.RoleAdmin}

	cacheMiss(f, "doc1", doc)
	f.teams.On("TeamByID", ctx, "team1").Return(team, nil)

	err := f.service.ShareWithTeam(ctx, "doc1", "team1", actor, false)

	assert.ErrorIs(t, err, models.ErrNoMembers)
}

func TestUpdateDocument_ReplacedBlobDeletedAfterRecordUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", Filename: "a.txt", ContentRef: "blob-old", Status: models.DocumentActive}
	actor := &models.User{ID: "owner", Role: models.RoleUser}

	cacheMiss(f, "doc1", doc)
	f.blobs.On("Put", ctx, mock.Anything, mock.Anything, int64(4), "text/plain").Return("blob-new", nil)
	f.repo.On("UpdateMeta", ctx, "doc1", mock.Anything, (*string)(nil), (*string)(nil)).Return(true, nil)
	f.blobs.On("Delete", ctx, "blob-old").Return(nil)
	f.cache.On("Del", ctx, []string{"doc1"}).Return(nil)

	err := f.service.UpdateDocument(ctx, "doc1", actor, UpdateParams{
		NewContent: bytes.NewReader([]byte("data")),
		Size:       4,
		Mime:       "text/plain",
	})

	assert.NoError(t, err)
	f.blobs.AssertExpectations(t)
}

func TestUpdateDocument_RecordGone_NewBlobRolledBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", ContentRef: "blob-old", Status: models.DocumentActive}
	actor := &models.User{ID: "owner", Role: models.RoleUser}

	cacheMiss(f, "doc1", doc)
	f.blobs.On("Put", ctx, mock.Anything, mock.Anything, int64(4), "").Return("blob-new", nil)
	f.repo.On("UpdateMeta", ctx, "doc1", mock.Anything, (*string)(nil), (*string)(nil)).Return(false, nil)
	f.blobs.On("Delete", ctx, "blob-new").Return(nil)

	err := f.service.UpdateDocument(ctx, "doc1", actor, UpdateParams{
		NewContent: bytes.NewReader([]byte("data")),
		Size:       4,
	})

	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
	f.blobs.AssertExpectations(t)
	f.blobs.AssertNotCalled(t, "Delete", ctx, "blob-old")
}

func TestUpdateDocument_NothingToChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	actor := &models.User{ID: "owner"}

	err := f.service.UpdateDocument(ctx, "doc1", actor, UpdateParams{})

	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestSoftDelete_AlreadyDeleted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", IsDeleted: true}
	actor := &models.User{ID: "owner", Role: models.RoleUser}

	f.repo.On("DocumentByID", ctx, "doc1").Return(doc, nil)

	err := f.service.SoftDelete(ctx, "doc1", actor)

	assert.ErrorIs(t, err, models.ErrConflict)
	f.repo.AssertNotCalled(t, "SetDeleted", mock.Anything, mock.Anything)
}

func TestSoftDelete_GuardLost_Conflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner"}
	actor := &models.User{ID: "owner", Role: models.RoleUser}

	f.repo.On("DocumentByID", ctx, "doc1").Return(doc, nil)
	f.repo.On("SetDeleted", ctx, "doc1").Return(false, nil)

	err := f.service.SoftDelete(ctx, "doc1", actor)

	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestSoftDelete_Success_PrunesIndex(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner"}
	actor := &models.User{ID: "owner", Role: models.RoleUser}

	f.repo.On("DocumentByID", ctx, "doc1").Return(doc, nil)
	f.repo.On("SetDeleted", ctx, "doc1").Return(true, nil)
	f.index.On("UsersReferencing", ctx, "doc1").Return([]string{"u1", "u2"}, nil)
	f.index.On("RemoveReference", ctx, "u1", "doc1").Return(nil)
	f.index.On("RemoveReference", ctx, "u2", "doc1").Return(nil)
	f.cache.On("Del", ctx, []string{"doc1"}).Return(nil)

	err := f.service.SoftDelete(ctx, "doc1", actor)

	assert.NoError(t, err)
	f.index.AssertExpectations(t)
}

func TestHardDelete_NonAdminForbidden(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	actor := &models.User{ID: "owner", Role: models.RoleUser}

	err := f.service.HardDelete(ctx, "doc1", actor)

	assert.ErrorIs(t, err, models.ErrForbidden)
	f.repo.AssertNotCalled(t, "DocumentByID", mock.Anything, mock.Anything)
}

func TestHardDelete_CleansAllBlobs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", ContentRef: "blob-doc"}
	actor := &models.User{ID: "root", Role: models.RoleAdmin}

	f.repo.On("DocumentByID", ctx, "doc1").Return(doc, nil)
	f.repo.On("RevisionsByDocument", ctx, "doc1").Return([]models.Revision{{ID: "rev1", ContentRef: "blob-rev"}}, nil)
	f.repo.On("SignatureRecords", ctx, "doc1").Return([]models.SignatureRecord{{SignerID: "s1", BlobRef: "blob-sig"}}, nil)
	f.repo.On("Delete", ctx, "doc1").Return(nil)
	f.index.On("RemoveAllReferences", ctx, "doc1").Return(nil)
	f.blobs.On("Delete", ctx, "blob-doc").Return(nil)
	f.blobs.On("Delete", ctx, "blob-rev").Return(nil)
	f.blobs.On("Delete", ctx, "blob-sig").Return(nil)
	f.cache.On("Del", ctx, []string{"doc1"}).Return(nil)

	err := f.service.HardDelete(ctx, "doc1", actor)

	assert.NoError(t, err)
	f.blobs.AssertExpectations(t)
}

func TestSearchAccessible_EmptyTerm(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	actor := &models.User{ID: "u1"}

	docs, err := f.service.SearchAccessible(ctx, actor, "")

	assert.ErrorIs(t, err, models.ErrInvalidParams)
	assert.Nil(t, docs)
}

func TestSearchAccessible_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	actor := &models.User{ID: "u1"}
	want := []*models.Document{{ID: "doc1", Filename: "report.pdf"}}

	f.repo.On("SearchAccessible", ctx, "u1", "report", searchLimit).Return(want, nil)

	docs, err := f.service.SearchAccessible(ctx, actor, "report")

	assert.NoError(t, err)
	assert.Equal(t, want, docs)
}

func TestDownloadURL_FromCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", ContentRef: "blob-1"}
	raw, _ := json.Marshal(doc)
	actor := &models.User{ID: "owner", Role: models.RoleUser}

	f.cache.On("Get", ctx, "doc1").Return(string(raw), nil)
	f.blobs.On("PresignGet", ctx, "blob-1", 15*time.Minute).Return("https://blobs/doc1", nil)

	url, ttl, err := f.service.DownloadURL(ctx, "doc1", actor)

	assert.NoError(t, err)
	assert.Equal(t, "https://blobs/doc1", url)
	assert.Equal(t, 15*time.Minute, ttl)
	f.repo.AssertNotCalled(t, "DocumentByID", mock.Anything, mock.Anything)
}

func TestDownloadURL_NoReadAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", ContentRef: "blob-1"}
	actor := &models.User{ID: "stranger", Role: models.RoleUser}

	cacheMiss(f, "doc1", doc)

	url, _, err := f.service.DownloadURL(ctx, "doc1", actor)

	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Empty(t, url)
}
