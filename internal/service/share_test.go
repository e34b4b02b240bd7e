package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dataroom/internal/model"
	"dataroom/internal/repository"
	repoMocks "dataroom/internal/repository/mocks"
	storeMocks "dataroom/internal/storage/mocks"
)

// subtreeFixture builds, for user-1:
//
//	S/          (shared root)
//	  C/
//	    G/      contains Y
//	Z/          (sibling of S) contains W
func subtreeFixture() *memDB {
	db := newMemDB()
	db.seedFolder("s", "S", nil, "user-1")
	db.seedFolder("c", "C", ptr("s"), "user-1")
	db.seedFolder("g", "G", ptr("c"), "user-1")
	db.seedFolder("z", "Z", nil, "user-1")
	db.seedFile("y", "y.pdf", ptr("g"), "user-1", "user-1/1-y.pdf")
	db.seedFile("w", "w.pdf", ptr("z"), "user-1", "user-1/2-w.pdf")
	db.seedFile("top", "top.pdf", nil, "user-1", "user-1/3-top.pdf")
	return db
}

func newMemShareService(db *memDB, opts ShareOptions) *shareService {
	return NewShareService(memLinks{db}, memFolders{db}, memFiles{db}, newMemBlobs(), zap.NewNop(), opts).(*shareService)
}

func TestShareService_SubtreeContainment(t *testing.T) {
	ctx := context.Background()
	db := subtreeFixture()
	svc := newMemShareService(db, ShareOptions{})

	y := db.files["y"]
	w := db.files["w"]

	ok, err := svc.ResolveSubtreeMembership(ctx, "user-1", y.FolderID, "s")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ResolveSubtreeMembership(ctx, "user-1", w.FolderID, "s")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.ResolveSubtreeMembership(ctx, "user-1", ptr("s"), "s")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ResolveSubtreeMembership(ctx, "user-1", nil, "s")
	require.NoError(t, err)
	assert.False(t, ok)

	link, err := svc.Issue(ctx, alice, "s")
	require.NoError(t, err)

	_, err = svc.Validate(ctx, link.Token)
	require.NoError(t, err)

	// Nested browse into a folder outside the shared subtree.
	_, err = svc.ListSharedChildren(ctx, link.Token, "z")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.SharedPath(ctx, link.Token, "z")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.SharedFileURL(ctx, link.Token, "w", 0)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.SharedFileURL(ctx, link.Token, "top", 0)
	assert.ErrorIs(t, err, ErrNotFound)

	// Nested browse inside it.
	contents, err := svc.ListSharedChildren(ctx, link.Token, "g")
	require.NoError(t, err)
	assert.Empty(t, contents.Folders)
	require.Len(t, contents.Files, 1)
	assert.Equal(t, "y", contents.Files[0].ID)

	rootContents, err := svc.ListSharedChildren(ctx, link.Token, "")
	require.NoError(t, err)
	assert.Equal(t, "s", rootContents.Folder.ID)
	require.Len(t, rootContents.Folders, 1)
	assert.Equal(t, "c", rootContents.Folders[0].ID)

	u, err := svc.SharedFileURL(ctx, link.Token, "y", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "https://blobs.test/user-1/1-y.pdf"))
}

func TestShareService_SharedPathStopsAtSharedRoot(t *testing.T) {
	ctx := context.Background()
	db := subtreeFixture()
	svc := newMemShareService(db, ShareOptions{})

	link, err := svc.Issue(ctx, alice, "c")
	require.NoError(t, err)

	path, err := svc.SharedPath(ctx, link.Token, "g")
	require.NoError(t, err)
	require.Len(t, path, 2)
	assert.Equal(t, "c", path[0].ID)
	assert.Equal(t, "g", path[1].ID)

	// The parent of the shared root is not reachable.
	_, err = svc.ListSharedChildren(ctx, link.Token, "s")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareService_MembershipFailsClosedOnCycle(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	db.seedFolder("s", "S", nil, "user-1")
	// x and y point at each other and never reach s.
	db.seedFolder("x", "X", ptr("y"), "user-1")
	db.seedFolder("y", "Y", ptr("x"), "user-1")
	// d hangs off a parent that does not exist.
	db.seedFolder("d", "D", ptr("gone"), "user-1")
	svc := newMemShareService(db, ShareOptions{})

	done := make(chan bool, 1)
	go func() {
		ok, err := svc.ResolveSubtreeMembership(ctx, "user-1", ptr("x"), "s")
		assert.NoError(t, err)
		done <- ok
	}()
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("membership walk did not terminate on a cyclic fixture")
	}

	ok, err := svc.ResolveSubtreeMembership(ctx, "user-1", ptr("d"), "s")
	require.NoError(t, err)
	assert.False(t, ok)

	// Folders of another owner never resolve, whatever their pointers say.
	db.seedFolder("foreign", "F", ptr("s"), "user-2")
	ok, err = svc.ResolveSubtreeMembership(ctx, "user-1", ptr("foreign"), "s")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestShareService_IssueIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := subtreeFixture()
	svc := newMemShareService(db, ShareOptions{})

	first, err := svc.Issue(ctx, alice, "s")
	require.NoError(t, err)
	second, err := svc.Issue(ctx, alice, "s")
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)
	assert.Len(t, first.Token, 64)
	assert.Equal(t, "alice@example.com", first.OwnerEmail)
	assert.Nil(t, first.ExpiresAt)
	assert.Len(t, db.links, 1)

	got, err := svc.Get(ctx, alice, "s")
	require.NoError(t, err)
	assert.Equal(t, first.Token, got.Token)

	require.NoError(t, svc.Revoke(ctx, alice, "s"))
	_, err = svc.Validate(ctx, first.Token)
	assert.ErrorIs(t, err, ErrInvalidShareToken)
	_, err = svc.Get(ctx, alice, "s")
	assert.ErrorIs(t, err, ErrNotFound)

	third, err := svc.Issue(ctx, alice, "s")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, third.Token)
}

func TestShareService_IssueRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	db := subtreeFixture()
	svc := newMemShareService(db, ShareOptions{})

	_, err := svc.Issue(ctx, bob, "s")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Issue(ctx, model.Principal{}, "s")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Issue(ctx, alice, "root")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, db.links)
}

func TestShareService_Expiry(t *testing.T) {
	ctx := context.Background()
	db := subtreeFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newMemShareService(db, ShareOptions{LinkTTL: time.Hour})
	svc.now = func() time.Time { return now }

	link, err := svc.Issue(ctx, alice, "s")
	require.NoError(t, err)
	require.NotNil(t, link.ExpiresAt)
	assert.Equal(t, now.Add(time.Hour), *link.ExpiresAt)

	_, err = svc.Validate(ctx, link.Token)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)

	_, expiredErr := svc.Validate(ctx, link.Token)
	_, unknownErr := svc.Validate(ctx, strings.Repeat("ab", 32))
	_, malformedErr := svc.Validate(ctx, "not-a-token")

	assert.ErrorIs(t, expiredErr, ErrInvalidShareToken)
	assert.Equal(t, unknownErr, expiredErr)
	assert.Equal(t, malformedErr, expiredErr)

	_, err = svc.ListSharedChildren(ctx, link.Token, "")
	assert.ErrorIs(t, err, ErrInvalidShareToken)

	// An expired link is replaced on the next issue.
	fresh, err := svc.Issue(ctx, alice, "s")
	require.NoError(t, err)
	assert.NotEqual(t, link.Token, fresh.Token)
	assert.Len(t, db.links, 1)
}

func TestShareService_IssueRace(t *testing.T) {
	ctx := context.Background()
	winner := &model.SharedLink{Token: strings.Repeat("cd", 32), FolderID: "s", OwnerID: "user-1"}

	mLinks := new(repoMocks.MockSharedLinkRepository)
	mFolders := new(repoMocks.MockFolderRepository)
	mFolders.On("FindByID", mock.Anything, "s", "user-1").Return(&model.Folder{ID: "s", OwnerID: "user-1"}, nil)
	mLinks.On("FindByFolder", mock.Anything, "s", "user-1").Return(nil, repository.ErrNotFound).Once()
	mLinks.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicate)
	mLinks.On("FindByFolder", mock.Anything, "s", "user-1").Return(winner, nil).Once()

	svc := NewShareService(mLinks, mFolders, new(repoMocks.MockFileRepository), new(storeMocks.MockStorage), zap.NewNop(), ShareOptions{})
	got, err := svc.Issue(ctx, alice, "s")

	require.NoError(t, err)
	assert.Equal(t, winner.Token, got.Token)
	mLinks.AssertExpectations(t)
}

func TestShareService_ValidateDoesNotQueryMalformedTokens(t *testing.T) {
	mLinks := new(repoMocks.MockSharedLinkRepository)
	svc := NewShareService(mLinks, new(repoMocks.MockFolderRepository), new(repoMocks.MockFileRepository), new(storeMocks.MockStorage), zap.NewNop(), ShareOptions{})

	for _, tok := range []string{"", "short", strings.Repeat("zz", 32), strings.Repeat("a", 65)} {
		_, err := svc.Validate(context.Background(), tok)
		assert.ErrorIs(t, err, ErrInvalidShareToken)
	}
	mLinks.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
}

func TestShareService_ValidatePersistenceError(t *testing.T) {
	tok := strings.Repeat("ab", 32)
	mLinks := new(repoMocks.MockSharedLinkRepository)
	mLinks.On("FindByToken", mock.Anything, tok).Return(nil, errors.New("connection reset"))

	svc := NewShareService(mLinks, new(repoMocks.MockFolderRepository), new(repoMocks.MockFileRepository), new(storeMocks.MockStorage), zap.NewNop(), ShareOptions{})
	_, err := svc.Validate(context.Background(), tok)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestShareService_SharedRoot(t *testing.T) {
	ctx := context.Background()
	db := subtreeFixture()
	svc := newMemShareService(db, ShareOptions{})

	link, err := svc.Issue(ctx, alice, "c")
	require.NoError(t, err)

	root, err := svc.SharedRoot(ctx, link.Token)
	require.NoError(t, err)
	assert.Equal(t, "C", root.Folder.Name)
	assert.Equal(t, "alice@example.com", root.OwnerEmail)
}

func TestShareService_SharedFileURLCapsTTL(t *testing.T) {
	ctx := context.Background()
	db := subtreeFixture()
	svc := newMemShareService(db, ShareOptions{SignedURLTTL: 10 * time.Minute})

	link, err := svc.Issue(ctx, alice, "s")
	require.NoError(t, err)

	tests := []struct {
		name    string
		ttl     time.Duration
		wantTTL string
	}{
		{name: "default", ttl: 0, wantTTL: "ttl=600"},
		{name: "shorter than the limit", ttl: time.Minute, wantTTL: "ttl=60"},
		{name: "longer than the limit", ttl: 24 * time.Hour, wantTTL: "ttl=600"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := svc.SharedFileURL(ctx, link.Token, "y", tt.ttl)
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(u, tt.wantTTL), "url %s", u)
		})
	}
}

func TestShareService_ListingCarriesSharedRoot(t *testing.T) {
	ctx := context.Background()
	db := subtreeFixture()
	svc := newMemShareService(db, ShareOptions{})

	link, err := svc.Issue(ctx, alice, "c")
	require.NoError(t, err)

	for _, folderID := range []string{"", "g"} {
		contents, err := svc.ListSharedChildren(ctx, link.Token, folderID)
		require.NoError(t, err)
		assert.Equal(t, "c", contents.RootID, "folder %q", folderID)
	}
}
