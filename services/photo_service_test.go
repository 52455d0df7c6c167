package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/repositories"
)

func photoTestFixture() (*fakePhotoRepo, *fakePhotoAdminRepo, *fakeStore, PhotoService) {
	photos := newFakePhotoRepo()
	photoAdmins := newFakePhotoAdminRepo("Casey")
	store := newFakeStore()
	mock := clock.NewMock()
	mock.Set(time.Date(2026, time.March, 14, 19, 30, 0, 0, time.UTC))
	svc := NewPhotoService(photos, photoAdmins, store, mock, testLogger())
	return photos, photoAdmins, store, svc
}

func TestSanitizeFolder(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: " Week 3  FINALS ", want: "week-3-finals"},
		{in: "week_3", want: "week_3"},
		{in: "--cool--", want: "cool"},
		{in: "2026 season", want: "2026-season"},
		{in: "week#1", wantErr: ErrBadFolderName},
		{in: "fiesta 🎉", wantErr: ErrBadFolderName},
		{in: "- -", wantErr: ErrBadFolderName},
		{in: "   ", wantErr: ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := sanitizeFolder(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("sanitizeFolder(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPhotoServiceUpload(t *testing.T) {
	photos, _, store, svc := photoTestFixture()

	body := strings.NewReader("jpeg bytes")
	photo, err := svc.Upload(context.Background(), playerSession("Pat", "A/B"), " Week 3 Finals ", "image/jpeg", 10, body)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if !strings.HasPrefix(photo.ObjectKey, "photos/week-3-finals/") {
		t.Errorf("key %q not under the folder prefix", photo.ObjectKey)
	}
	if !strings.HasSuffix(photo.ObjectKey, ".jpg") {
		t.Errorf("key %q missing the jpg extension", photo.ObjectKey)
	}
	if !strings.Contains(photo.ObjectKey, "20260314-193000") {
		t.Errorf("key %q missing the upload stamp", photo.ObjectKey)
	}
	if photo.UploadedBy != "Pat" || photo.Folder != "week-3-finals" {
		t.Errorf("record fields wrong: %+v", photo)
	}
	if photo.URL == "" {
		t.Error("public URL not populated")
	}
	if _, ok := store.objects[photo.ObjectKey]; !ok {
		t.Error("object not stored")
	}
	if len(photos.photos) != 1 {
		t.Errorf("repo holds %d records, want 1", len(photos.photos))
	}
}

func TestPhotoServiceUploadGates(t *testing.T) {
	_, _, _, svc := photoTestFixture()
	ctx := context.Background()
	body := strings.NewReader("bytes")

	if _, err := svc.Upload(ctx, models.Session{ID: "anon"}, "week-3", "image/jpeg", 5, body); !errors.Is(err, ErrIdentityRequired) {
		t.Errorf("anonymous err = %v, want ErrIdentityRequired", err)
	}
	if _, err := svc.Upload(ctx, playerSession("Pat", "A/B"), "week#3", "image/jpeg", 5, body); !errors.Is(err, ErrBadFolderName) {
		t.Errorf("bad folder err = %v, want ErrBadFolderName", err)
	}
	if _, err := svc.Upload(ctx, playerSession("Pat", "A/B"), "week-3", "text/plain", 5, body); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("bad content type err = %v, want ErrValidationFailed", err)
	}
}

func TestPhotoServiceUploadRollsBackObject(t *testing.T) {
	photos, _, store, svc := photoTestFixture()
	photos.createErr = repositories.ErrPhotoDuplicateKey

	_, err := svc.Upload(context.Background(), playerSession("Pat", "A/B"), "week-3", "image/png", 5, strings.NewReader("png"))
	if !errors.Is(err, repositories.ErrPhotoDuplicateKey) {
		t.Fatalf("err = %v, want ErrPhotoDuplicateKey", err)
	}
	if len(store.objects) != 0 {
		t.Errorf("failed insert left %d objects in the bucket", len(store.objects))
	}
	if len(store.deleted) != 1 {
		t.Errorf("rollback deleted %d objects, want 1", len(store.deleted))
	}
}

func TestPhotoServiceListFolder(t *testing.T) {
	photos, _, _, svc := photoTestFixture()
	seed := &models.PhotoUpload{ObjectKey: "photos/week-3/a.jpg", Folder: "week-3", UploadedBy: "Pat"}
	if err := photos.Create(context.Background(), nil, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	list, err := svc.ListFolder(context.Background(), "Week 3")
	if err != nil {
		t.Fatalf("ListFolder: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d photos, want 1", len(list))
	}
	if list[0].URL == "" {
		t.Error("listing did not populate the public URL")
	}

	if _, err := svc.ListFolder(context.Background(), "no/slash"); !errors.Is(err, ErrBadFolderName) {
		t.Errorf("err = %v, want ErrBadFolderName", err)
	}
}

func TestPhotoServiceDeletePermissions(t *testing.T) {
	tests := []struct {
		name    string
		session models.Session
		wantErr error
	}{
		{name: "uploader", session: playerSession("Pat", "A/B")},
		{name: "uploader case folded", session: playerSession("pat", "")},
		{name: "photo admin", session: playerSession("Casey", "")},
		{name: "league admin", session: adminSession()},
		{name: "other player", session: playerSession("Riley", "C/D"), wantErr: ErrForbiddenOperation},
		{name: "anonymous", session: models.Session{ID: "anon"}, wantErr: ErrForbiddenOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			photos, _, store, svc := photoTestFixture()
			seed := &models.PhotoUpload{ObjectKey: "photos/week-3/a.jpg", Folder: "week-3", UploadedBy: "Pat"}
			if err := photos.Create(context.Background(), nil, seed); err != nil {
				t.Fatalf("seed: %v", err)
			}
			store.objects[seed.ObjectKey] = []byte("jpeg")

			err := svc.Delete(context.Background(), tt.session, seed.ID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if len(photos.photos) != 1 || len(store.objects) != 1 {
					t.Error("refused delete still removed something")
				}
				return
			}
			if err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if len(photos.photos) != 0 {
				t.Error("record still present")
			}
			if len(store.objects) != 0 {
				t.Error("object still present")
			}
		})
	}
}

func TestPhotoServiceDeleteKeepsRowWhenObjectStuck(t *testing.T) {
	photos, _, store, svc := photoTestFixture()
	seed := &models.PhotoUpload{ObjectKey: "photos/week-3/a.jpg", Folder: "week-3", UploadedBy: "Pat"}
	if err := photos.Create(context.Background(), nil, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store.deleteErr = errors.New("bucket unreachable")

	if err := svc.Delete(context.Background(), adminSession(), seed.ID); err == nil {
		t.Fatal("expected the store error to surface")
	}
	// The record survives a failed object delete, so a retry still finds it.
	if len(photos.photos) != 1 {
		t.Error("record removed although the object was never deleted")
	}
}

func TestPhotoServiceOrphans(t *testing.T) {
	photos, _, store, svc := photoTestFixture()
	ctx := context.Background()

	recorded := &models.PhotoUpload{ObjectKey: "photos/week-3/kept.jpg", Folder: "week-3", UploadedBy: "Pat"}
	if err := photos.Create(ctx, nil, recorded); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store.objects["photos/week-3/kept.jpg"] = []byte("a")
	store.objects["photos/week-3/stray.jpg"] = []byte("b")
	store.objects["logos/sponsor.png"] = []byte("c")

	if _, err := svc.Orphans(ctx, playerSession("Pat", "A/B")); !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("non-admin err = %v, want ErrForbiddenOperation", err)
	}

	orphans, err := svc.Orphans(ctx, adminSession())
	if err != nil {
		t.Fatalf("Orphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0].Key != "photos/week-3/stray.jpg" {
		t.Errorf("orphans = %+v, want just the stray", orphans)
	}
}
