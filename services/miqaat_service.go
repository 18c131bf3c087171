// Package services — Miqaat (canlı yayın etkinliği) servisi.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anjuman/hub/config"
	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/repository"
	"github.com/anjuman/hub/ws"
	"github.com/livekit/protocol/auth"
)

// MiqaatService interface'i.
type MiqaatService interface {
	Create(ctx context.Context, req *models.CreateMiqaatRequest) (*models.Miqaat, error)
	Update(ctx context.Context, id string, req *models.CreateMiqaatRequest) (*models.Miqaat, error)
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]models.Miqaat, error)
	// GetActive, şu an izlenebilir (aktif penceredeki) miqaatları döner.
	GetActive(ctx context.Context) ([]models.Miqaat, error)
	// ViewerToken, LiveKit kaynaklı miqaat için izleme token'ı üretir.
	// Publish yetkisi sadece miqaat'in admin_username'ine verilir.
	ViewerToken(ctx context.Context, miqaatID, userID, username string) (*ViewerTokenResponse, error)
}

// ViewerTokenResponse, client'ın LiveKit'e bağlanması için gereken bilgiler.
type ViewerTokenResponse struct {
	Token    string `json:"token"`
	URL      string `json:"url"`
	MiqaatID string `json:"miqaat_id"`
}

type miqaatService struct {
	repo       repository.MiqaatRepository
	hub        ws.EventPublisher
	livekitCfg config.LiveKitConfig
	now        func() time.Time // testlerde sabitlenebilir
}

// NewMiqaatService, constructor.
func NewMiqaatService(
	repo repository.MiqaatRepository,
	hub ws.EventPublisher,
	livekitCfg config.LiveKitConfig,
) MiqaatService {
	return &miqaatService{
		repo:       repo,
		hub:        hub,
		livekitCfg: livekitCfg,
		now:        time.Now,
	}
}

func (s *miqaatService) Create(ctx context.Context, req *models.CreateMiqaatRequest) (*models.Miqaat, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	miqaat := s.fromRequest(req)
	if err := s.repo.Create(ctx, miqaat); err != nil {
		return nil, err
	}

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpRelayCreate, Data: miqaat})
	return miqaat, nil
}

func (s *miqaatService) Update(ctx context.Context, id string, req *models.CreateMiqaatRequest) (*models.Miqaat, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	miqaat := s.fromRequest(req)
	miqaat.ID = existing.ID
	miqaat.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, miqaat); err != nil {
		return nil, err
	}

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpRelayUpdate, Data: miqaat})
	return miqaat, nil
}

func (s *miqaatService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpRelayDelete, Data: ws.DeletedData{ID: id}})
	return nil
}

func (s *miqaatService) GetAll(ctx context.Context) ([]models.Miqaat, error) {
	return s.repo.GetAll(ctx)
}

func (s *miqaatService) GetActive(ctx context.Context) ([]models.Miqaat, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	active := make([]models.Miqaat, 0)
	for _, m := range all {
		if m.IsActiveAt(now) {
			active = append(active, m)
		}
	}

	return active, nil
}

// ViewerToken, LiveKit AccessToken üretir.
//
// auth.NewAccessToken: LiveKit'in JWT builder'ı.
// API key + secret ile imzalanır, client bununla LiveKit'e bağlanır.
// LiveKit sunucusu token'ı doğrular ve grant'lara göre izin verir.
func (s *miqaatService) ViewerToken(ctx context.Context, miqaatID, userID, username string) (*ViewerTokenResponse, error) {
	miqaat, err := s.repo.GetByID(ctx, miqaatID)
	if err != nil {
		return nil, err
	}

	if miqaat.SourceType != models.SourceTypeLiveKit {
		return nil, fmt.Errorf("%w: miqaat is not a livekit relay", pkg.ErrBadRequest)
	}

	if !miqaat.IsActiveAt(s.now()) {
		return nil, fmt.Errorf("%w: miqaat is not active", pkg.ErrForbidden)
	}

	// Publish yetkisi SADECE yayın admini — herkes izleyici (subscribe-only)
	canPublish := username == miqaat.AdminUsername
	canSubscribe := true

	at := auth.NewAccessToken(s.livekitCfg.APIKey, s.livekitCfg.APISecret)

	grant := &auth.VideoGrant{
		RoomJoin:     true,
		Room:         miqaat.ID, // LiveKit room name = miqaat ID
		CanPublish:   &canPublish,
		CanSubscribe: &canSubscribe,
	}

	at.AddGrant(grant).
		SetIdentity(userID).
		SetName(username).
		SetValidFor(24 * time.Hour) // Uzun validite — LiveKit disconnect'i kendisi yönetir

	token, err := at.ToJWT()
	if err != nil {
		return nil, fmt.Errorf("failed to generate livekit token: %w", err)
	}

	return &ViewerTokenResponse{
		Token:    token,
		URL:      s.livekitCfg.URL,
		MiqaatID: miqaat.ID,
	}, nil
}

func (s *miqaatService) fromRequest(req *models.CreateMiqaatRequest) *models.Miqaat {
	var youtubeID, iframeCode *string
	if req.YoutubeID != "" {
		youtubeID = &req.YoutubeID
	}
	if req.IframeCode != "" {
		iframeCode = &req.IframeCode
	}

	return &models.Miqaat{
		Name:          req.Name,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		SourceType:    models.MiqaatSourceType(req.SourceType),
		YoutubeID:     youtubeID,
		IframeCode:    iframeCode,
		AdminUsername: req.AdminUsername,
	}
}
