package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/store"
	"github.com/kopimi-kafe/backend/internal/utils"
)

var (
	errEmailTaken       = errors.New("email is already registered")
	errNotEnoughPoints  = errors.New("not enough points for a reward")
	errNegativeBalance  = errors.New("points cannot go below zero")
	errMemberNotFound   = errors.New("member not found")
	errWrongCredentials = errors.New("wrong email or password")
)

func memberID(m domain.Member) string { return m.ID }

func (h *Handler) memberSessionTTL() time.Duration {
	return time.Duration(h.config.Member.Expiration) * time.Hour
}

func (h *Handler) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName" validate:"required,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	member := domain.Member{
		ID:           utils.NewID("member"),
		FullName:     req.FullName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		JoinedAt:     h.now().UTC().Format(time.RFC3339),
	}
	err = h.store.Mutate(func(s *domain.Snapshot) error {
		if _, ok := findMemberByEmail(s.Members, member.Email); ok {
			return errEmailTaken
		}
		s.Members = append(s.Members, member)
		return nil
	})
	if err != nil {
		h.memberError(w, r, err)
		return
	}

	if err := h.setSession(w, memberCookie, RoleMember, member.ID, h.memberSessionTTL(), true); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.createdResponse(w, r, "welcome to Kopimi Kafe", member.View())
}

func findMemberByEmail(members []domain.Member, email string) (domain.Member, bool) {
	for _, m := range members {
		if strings.EqualFold(m.Email, email) {
			return m, true
		}
	}
	return domain.Member{}, false
}

func (h *Handler) MemberLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	member, ok := findMemberByEmail(store.Get(h.store, store.Members), strings.TrimSpace(req.Email))
	if !ok {
		h.unauthorized(w, r, errWrongCredentials.Error())
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrHashTooShort):
			h.unauthorized(w, r, errWrongCredentials.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.setSession(w, memberCookie, RoleMember, member.ID, h.memberSessionTTL(), true); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "logged in", member.View())
}

func (h *Handler) MemberLogout(w http.ResponseWriter, r *http.Request) {
	clearSession(w, memberCookie)
	h.successResponse(w, r, "logged out", nil)
}

func (h *Handler) currentMemberID(r *http.Request) string {
	return r.Context().Value(SubCtxKey).(string)
}

func (h *Handler) GetMyMembership(w http.ResponseWriter, r *http.Request) {
	member, ok := findByID(store.Get(h.store, store.Members), h.currentMemberID(r), memberID)
	if !ok {
		h.memberError(w, r, errMemberNotFound)
		return
	}

	h.successResponse(w, r, "membership", member.View())
}

// adjustPoints changes a member's balance by delta inside one store mutation.
func (h *Handler) adjustPoints(id string, delta int, check func(domain.Member) error) (domain.Member, error) {
	var member domain.Member
	err := h.store.Mutate(func(s *domain.Snapshot) error {
		i := indexByID(s.Members, id, memberID)
		if i < 0 {
			return errMemberNotFound
		}
		if check != nil {
			if err := check(s.Members[i]); err != nil {
				return err
			}
		}
		if s.Members[i].Points+delta < 0 {
			return errNegativeBalance
		}
		s.Members[i].Points += delta
		member = s.Members[i]
		return nil
	})
	return member, err
}

// RecordPurchase credits the member for one purchase.
func (h *Handler) RecordPurchase(w http.ResponseWriter, r *http.Request) {
	member, err := h.adjustPoints(h.currentMemberID(r), domain.PointsPerPurchase, nil)
	if err != nil {
		h.memberError(w, r, err)
		return
	}

	h.successResponse(w, r, "points added", member.View())
}

// RedeemReward trades RewardThreshold points for a free coffee.
func (h *Handler) RedeemReward(w http.ResponseWriter, r *http.Request) {
	member, err := h.adjustPoints(h.currentMemberID(r), -domain.RewardThreshold, func(m domain.Member) error {
		if m.Points < domain.RewardThreshold {
			return errNotEnoughPoints
		}
		return nil
	})
	if err != nil {
		h.memberError(w, r, err)
		return
	}

	h.successResponse(w, r, "enjoy your free coffee", member.View())
}

func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	members := store.Get(h.store, store.Members)
	views := make([]domain.MemberView, len(members))
	for i, m := range members {
		views[i] = m.View()
	}

	h.successResponse(w, r, "members", views)
}

func (h *Handler) AdjustMemberPoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta" validate:"required,min=-100000,max=100000"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	member, err := h.adjustPoints(chi.URLParam(r, "id"), req.Delta, nil)
	if err != nil {
		h.memberError(w, r, err)
		return
	}

	h.successResponse(w, r, "points updated", member.View())
}

func (h *Handler) memberError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errMemberNotFound):
		h.notFound(w, r, "member")
	case errors.Is(err, errEmailTaken):
		h.errorResponse(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, errNotEnoughPoints), errors.Is(err, errNegativeBalance):
		h.errorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotLoaded):
		h.errorResponse(w, r, http.StatusServiceUnavailable, "data is still loading")
	default:
		h.internalServerError(w, r, err)
	}
}
