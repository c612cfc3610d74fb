// internal/handlers/player.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ludoworld/ludo-service/internal/auth"
	"github.com/ludoworld/ludo-service/internal/database"
	"github.com/ludoworld/ludo-service/internal/models"
)

// GuestStartingWallet is the balance a freshly created guest receives.
// Overridden from config at startup.
var GuestStartingWallet int64 = 1000

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
}

func createGuest(ctx context.Context) (*models.Player, string, error) {
	recovery, err := auth.NewRecoveryToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate recovery token: %w", err)
	}
	hash, err := auth.CreateHash(recovery, auth.Params)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash recovery token: %w", err)
	}

	player := models.Player{
		DisplayName: "Guest",
		Wallet:      GuestStartingWallet,
		IsEphemeral: true,
		TokenHash:   hash,
	}
	if err := database.CreatePlayer(ctx, &player); err != nil {
		return nil, "", fmt.Errorf("failed to create guest player: %w", err)
	}
	return &player, recovery, nil
}

// EnsureGuestPlayer resolves the connecting player from the auth_token
// cookie, creating a fresh guest account (and setting the cookie) when the
// cookie is missing or no longer valid. The recovery token is non-empty only
// when a new guest was just created; it is shown to the client exactly once.
func EnsureGuestPlayer(w http.ResponseWriter, r *http.Request) (*models.Player, string, error) {
	token := extractCookieToken(r.Header.Get("Cookie"), "auth_token")

	if token != "" {
		playerIDStr, err := auth.AuthenticateSessionToken(token)
		if err == nil {
			playerID, parseErr := uuid.Parse(playerIDStr)
			if parseErr != nil {
				return nil, "", fmt.Errorf("invalid player id in token: %w", parseErr)
			}
			player, dbErr := database.GetPlayerByID(r.Context(), playerID)
			if dbErr == nil {
				return player, "", nil
			}
			// Stale token for a purged row falls through to a fresh guest.
		}
	}

	player, recovery, err := createGuest(r.Context())
	if err != nil {
		return nil, "", err
	}
	sessionToken, err := auth.CreateSessionToken(player.ID.String())
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}
	setSessionCookie(w, sessionToken)
	return player, recovery, nil
}

type guestResponse struct {
	PlayerID      string `json:"playerId"`
	DisplayName   string `json:"displayName"`
	Wallet        int64  `json:"wallet"`
	Token         string `json:"token"`
	RecoveryToken string `json:"recoveryToken"`
}

// CreateGuestHandler explicitly provisions a guest account over HTTP, for
// clients that want the recovery token before opening the socket.
func CreateGuestHandler(logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, recovery, err := createGuest(r.Context())
		if err != nil {
			logger.WithError(err).Error("guest creation failed")
			http.Error(w, "error creating guest", http.StatusInternalServerError)
			return
		}
		sessionToken, err := auth.CreateSessionToken(player.ID.String())
		if err != nil {
			logger.WithError(err).Error("session token creation failed")
			http.Error(w, "error creating session", http.StatusInternalServerError)
			return
		}
		setSessionCookie(w, sessionToken)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(guestResponse{
			PlayerID:      player.ID.String(),
			DisplayName:   player.DisplayName,
			Wallet:        player.Wallet,
			Token:         sessionToken,
			RecoveryToken: recovery,
		})
	}
}

type recoverRequest struct {
	PlayerID      string `json:"playerId"`
	RecoveryToken string `json:"recoveryToken"`
}

// RecoverPlayerHandler re-issues a session for a guest who presents the
// recovery token from account creation, e.g. from a new device.
func RecoverPlayerHandler(logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recoverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		playerID, err := uuid.Parse(req.PlayerID)
		if err != nil {
			http.Error(w, "invalid player id", http.StatusBadRequest)
			return
		}

		player, err := database.GetPlayerByID(r.Context(), playerID)
		if err != nil {
			http.Error(w, "player not found", http.StatusNotFound)
			return
		}
		ok, err := auth.CompareTokenAndHash(req.RecoveryToken, player.TokenHash)
		if err != nil || !ok {
			http.Error(w, "recovery failed", http.StatusForbidden)
			return
		}

		sessionToken, err := auth.CreateSessionToken(player.ID.String())
		if err != nil {
			logger.WithError(err).Error("session token creation failed")
			http.Error(w, "error creating session", http.StatusInternalServerError)
			return
		}
		setSessionCookie(w, sessionToken)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"playerId": player.ID.String(),
			"token":    sessionToken,
		})
	}
}

// MeHandler returns the authenticated player's profile and wallet balance.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	token := extractCookieToken(r.Header.Get("Cookie"), "auth_token")
	playerIDStr, err := auth.AuthenticateSessionToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	playerID, err := uuid.Parse(playerIDStr)
	if err != nil {
		http.Error(w, "invalid player id in token", http.StatusForbidden)
		return
	}
	player, err := database.GetPlayerByID(r.Context(), playerID)
	if err != nil {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(player)
}

type updateProfileRequest struct {
	DisplayName string `json:"displayName"`
	PicURL      string `json:"picUrl"`
}

// UpdateProfileHandler changes the caller's display name and avatar.
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	token := extractCookieToken(r.Header.Get("Cookie"), "auth_token")
	playerIDStr, err := auth.AuthenticateSessionToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	playerID, err := uuid.Parse(playerIDStr)
	if err != nil {
		http.Error(w, "invalid player id in token", http.StatusForbidden)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DisplayName == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := database.UpdatePlayerProfile(r.Context(), playerID, req.DisplayName, req.PicURL); err != nil {
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
