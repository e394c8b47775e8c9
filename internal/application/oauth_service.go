package application

import (
	"context"
	"fmt"
	"time"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/ports"

	"github.com/rs/zerolog"
)

// initialSyncTimeout bounds the detached first sync after an install.
const initialSyncTimeout = 10 * time.Minute

// subscribedTopics are the webhook subscriptions registered on install.
var subscribedTopics = []string{
	domain.TopicProductCreated,
	domain.TopicProductUpdated,
	domain.TopicProductDeleted,
	domain.TopicCategoryCreated,
	domain.TopicCategoryUpdated,
	domain.TopicCategoryDeleted,
	domain.TopicAppUninstalled,
}

// OAuthService completes the Tiendanube install flow: token exchange, store
// upsert, webhook registration and the detached initial sync.
type OAuthService struct {
	client     ports.TiendanubeClient
	stores     ports.StoreRepository
	encryption ports.EncryptionService
	sync       *SyncService
	webhookURL string
	logger     zerolog.Logger
}

// NewOAuthService creates a new OAuth service. webhookURL is the public
// endpoint Tiendanube will deliver events to.
func NewOAuthService(
	client ports.TiendanubeClient,
	stores ports.StoreRepository,
	encryption ports.EncryptionService,
	sync *SyncService,
	webhookURL string,
	logger zerolog.Logger,
) *OAuthService {
	return &OAuthService{
		client:     client,
		stores:     stores,
		encryption: encryption,
		sync:       sync,
		webhookURL: webhookURL,
		logger:     logger,
	}
}

// HandleCallback exchanges the authorization code, persists the credential
// and kicks off the first sync in the background. The returned store is
// ready to serve reads as soon as that sync lands.
func (s *OAuthService) HandleCallback(ctx context.Context, code string) (*domain.Store, error) {
	token, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	info, err := s.client.GetStore(ctx, token.UserID, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch store info: %w", err)
	}

	encrypted, err := s.encryption.Encrypt(token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	store, err := s.stores.GetByShopID(ctx, token.UserID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		store = &domain.Store{}
	}

	shopID := token.UserID
	store.ShopID = &shopID
	store.AccessToken = encrypted
	store.Name = info.Name.Resolve(info.MainLang, fmt.Sprintf("Store %d", shopID))
	store.Description = info.Description.Resolve(info.MainLang, "")
	store.URL = info.URL
	store.Logo = info.Logo

	if err := s.stores.Save(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to save store: %w", err)
	}

	store, err = s.stores.GetByShopID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("store %d vanished after save", shopID)
	}

	if err := s.registerWebhooks(ctx, shopID, token.AccessToken); err != nil {
		// The install still succeeds; reads work and a manual sync can
		// recover until webhooks are registered on the next install.
		s.logger.Error().Err(err).Int64("shop_id", shopID).Msg("Webhook registration failed")
	}

	s.logger.Info().Int64("shop_id", shopID).Str("url", store.URL).Msg("Store authorized")

	go s.initialSync(store.ID)

	return store, nil
}

// registerWebhooks subscribes the missing topics, leaving existing
// subscriptions alone.
func (s *OAuthService) registerWebhooks(ctx context.Context, shopID int64, accessToken string) error {
	existing, err := s.client.ListWebhooks(ctx, shopID, accessToken)
	if err != nil {
		return fmt.Errorf("failed to list webhooks: %w", err)
	}

	have := make(map[string]bool, len(existing))
	for _, wh := range existing {
		if wh.URL == s.webhookURL {
			have[wh.Topic] = true
		}
	}

	for _, topic := range subscribedTopics {
		if have[topic] {
			continue
		}
		if _, err := s.client.CreateWebhook(ctx, shopID, accessToken, topic, s.webhookURL); err != nil {
			return fmt.Errorf("failed to register webhook %s: %w", topic, err)
		}
		s.logger.Debug().Int64("shop_id", shopID).Str("topic", topic).Msg("Webhook registered")
	}

	return nil
}

// initialSync runs the first full sync detached from the callback request.
// Its failure is logged, never surfaced to the merchant.
func (s *OAuthService) initialSync(storeID string) {
	ctx, cancel := context.WithTimeout(context.Background(), initialSyncTimeout)
	defer cancel()

	report, err := s.sync.SyncStore(ctx, storeID)
	if err != nil {
		s.logger.Error().Err(err).Str("store_id", storeID).Msg("Initial sync failed")
		return
	}

	s.logger.Info().
		Str("store_id", storeID).
		Int("total_synced", report.TotalSynced).
		Msg("Initial sync finished")
}
