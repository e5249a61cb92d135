package handler

import (
	"net/http"
	"time"

	"github.com/storefront-labs/shop-admin-api/internal/domain/user"
)

type addUserRequest struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	IsActive     bool   `json:"isActive"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) addUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	u, err := user.New(req.Email, req.PasswordHash, req.IsActive)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.users.Insert(r.Context(), u)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Password hashes stay server-side.
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = userResponse{
			ID:        u.ID,
			Email:     u.Email,
			IsActive:  u.IsActive,
			CreatedAt: u.CreatedAt,
		}
	}
	writeJSON(w, r, http.StatusOK, out)
}
