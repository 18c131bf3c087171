// Package services — Kullanıcı yönetim servisi (admin paneli).
package services

import (
	"context"
	"fmt"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/repository"
)

// UserAdminService, platform adminlerinin üye yönetimi işlemleri.
type UserAdminService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	// SetRestricted, üyenin medya yükleme kısıtını değiştirir.
	SetRestricted(ctx context.Context, targetID string, restricted bool) error
	// SetPlatformAdmin, üyeye admin yetkisi verir/alır.
	// Admin kendi yetkisini ALAMAZ — sistem adminsiz kalabilir.
	SetPlatformAdmin(ctx context.Context, requesterID, targetID string, isAdmin bool) error
	// DeleteUser, üyeyi siler. Admin kendini silemez.
	DeleteUser(ctx context.Context, requesterID, targetID string) error
}

type userAdminService struct {
	userRepo repository.UserRepository
}

// NewUserAdminService, constructor.
func NewUserAdminService(userRepo repository.UserRepository) UserAdminService {
	return &userAdminService{userRepo: userRepo}
}

func (s *userAdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	// Hash'ler response'a sızmasın
	for i := range users {
		users[i].PasswordHash = ""
	}

	return users, nil
}

func (s *userAdminService) SetRestricted(ctx context.Context, targetID string, restricted bool) error {
	return s.userRepo.SetRestricted(ctx, targetID, restricted)
}

func (s *userAdminService) SetPlatformAdmin(ctx context.Context, requesterID, targetID string, isAdmin bool) error {
	if requesterID == targetID && !isAdmin {
		return fmt.Errorf("%w: cannot remove your own admin role", pkg.ErrBadRequest)
	}
	return s.userRepo.SetPlatformAdmin(ctx, targetID, isAdmin)
}

func (s *userAdminService) DeleteUser(ctx context.Context, requesterID, targetID string) error {
	if requesterID == targetID {
		return fmt.Errorf("%w: cannot delete your own account", pkg.ErrBadRequest)
	}
	return s.userRepo.Delete(ctx, targetID)
}
