package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/courtside/league-system/repositories"
)

func TestSponsorServiceCreateAndList(t *testing.T) {
	repo := newFakeSponsorRepo()
	svc := NewSponsorService(repo, newFakeStore(), testLogger())
	ctx := context.Background()

	if _, err := svc.Create(ctx, SponsorInput{Name: "  "}); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("blank name err = %v, want ErrValidationFailed", err)
	}

	if _, err := svc.Create(ctx, SponsorInput{Name: "Corner Deli", SortOrder: 2}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, SponsorInput{Name: "Hoops Gear", SortOrder: 1}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Hoops Gear" {
		t.Errorf("list order wrong: %+v", list)
	}
}

func TestSponsorServiceUploadLogo(t *testing.T) {
	repo := newFakeSponsorRepo()
	store := newFakeStore()
	svc := NewSponsorService(repo, store, testLogger())
	ctx := context.Background()

	sponsor, err := svc.Create(ctx, SponsorInput{Name: "Corner Deli"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := svc.UploadLogo(ctx, sponsor.ID, "image/png", strings.NewReader("png-1"))
	if err != nil {
		t.Fatalf("UploadLogo: %v", err)
	}
	if first.LogoKey == nil || !strings.HasSuffix(*first.LogoKey, ".png") {
		t.Fatalf("logo key wrong: %+v", first.LogoKey)
	}
	if first.LogoURL == nil || *first.LogoURL == "" {
		t.Error("logo URL not populated")
	}

	// A replacement swaps the object out from under the old key.
	second, err := svc.UploadLogo(ctx, sponsor.ID, "image/png", strings.NewReader("png-2"))
	if err != nil {
		t.Fatalf("second UploadLogo: %v", err)
	}
	if *second.LogoKey == *first.LogoKey {
		t.Error("replacement reused the old object key")
	}
	if _, ok := store.objects[*first.LogoKey]; ok {
		t.Error("old logo object still in the bucket")
	}
	if _, ok := store.objects[*second.LogoKey]; !ok {
		t.Error("new logo object missing")
	}

	if _, err := svc.UploadLogo(ctx, sponsor.ID, "text/html", strings.NewReader("nope")); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("bad content type err = %v, want ErrValidationFailed", err)
	}
	if _, err := svc.UploadLogo(ctx, 99, "image/png", strings.NewReader("x")); !errors.Is(err, repositories.ErrSponsorNotFound) {
		t.Errorf("missing sponsor err = %v, want ErrSponsorNotFound", err)
	}
}

func TestSponsorServiceDeleteRemovesLogo(t *testing.T) {
	repo := newFakeSponsorRepo()
	store := newFakeStore()
	svc := NewSponsorService(repo, store, testLogger())
	ctx := context.Background()

	sponsor, err := svc.Create(ctx, SponsorInput{Name: "Corner Deli"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.UploadLogo(ctx, sponsor.ID, "image/png", strings.NewReader("png")); err != nil {
		t.Fatalf("UploadLogo: %v", err)
	}

	if err := svc.Delete(ctx, sponsor.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.objects) != 0 {
		t.Errorf("bucket still holds %d objects after delete", len(store.objects))
	}
	if err := svc.Delete(ctx, sponsor.ID); !errors.Is(err, repositories.ErrSponsorNotFound) {
		t.Errorf("second delete err = %v, want ErrSponsorNotFound", err)
	}
}
