package profile

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/handler/respond"
	"github.com/telemedpro/telemed/backend/internal/model/record"
	"github.com/telemedpro/telemed/backend/internal/service/profile"
	"github.com/telemedpro/telemed/backend/pkg/utils"
)

// Handler 个人资料的HTTP处理器
type Handler struct {
	profiles *profile.Service
	notices  *device.Notices
}

// New 创建个人资料处理器
func New(profiles *profile.Service, notices *device.Notices) *Handler {
	return &Handler{profiles: profiles, notices: notices}
}

// RegisterRoutes 注册个人资料相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.handleGet)
	r.Put("/profile/personal", h.handleUpdatePersonal)
	r.Post("/profile/photo", h.handleChangePhoto)
	r.Post("/profile/medical/{list}", h.handleAddItem)
	r.Delete("/profile/medical/{list}/{index}", h.handleRemoveItem)

	r.Get("/profile/contacts", h.handleListContacts)
	r.Post("/profile/contacts", h.handleAddContact)
	r.Put("/profile/contacts/{id}", h.handleUpdateContact)
	r.Delete("/profile/contacts/{id}", h.handleDeleteContact)
	r.Post("/profile/contacts/{id}/call", h.handleCallContact)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.profiles.Get(r.Context()))
}

func (h *Handler) handleUpdatePersonal(w http.ResponseWriter, r *http.Request) {
	var in record.UserProfile
	if err := utils.DecodeJSON(r, &in); err != nil {
		respond.Error(w, err, nil)
		return
	}
	user, err := h.profiles.UpdatePersonal(r.Context(), in)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

// handleChangePhoto 从相册选择头像。
func (h *Handler) handleChangePhoto(w http.ResponseWriter, r *http.Request) {
	uri, err := h.profiles.ChangePhoto(r.Context())
	if err != nil {
		respond.Error(w, err, h.notices)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"photoUri": uri})
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Value string `json:"value"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		respond.Error(w, err, nil)
		return
	}
	info, err := h.profiles.AddItem(r.Context(), profile.MedicalList(chi.URLParam(r, "list")), payload.Value)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, info)
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respond.Error(w, profile.ErrIndexOutOfRange, nil)
		return
	}
	info, err := h.profiles.RemoveItem(r.Context(), profile.MedicalList(chi.URLParam(r, "list")), index)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, info)
}

func (h *Handler) handleListContacts(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.profiles.Contacts(r.Context()))
}

func (h *Handler) handleAddContact(w http.ResponseWriter, r *http.Request) {
	var in profile.ContactInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		respond.Error(w, err, nil)
		return
	}
	contact, err := h.profiles.AddContact(r.Context(), in)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusCreated, contact)
}

func (h *Handler) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	var in profile.ContactInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		respond.Error(w, err, nil)
		return
	}
	contact, err := h.profiles.UpdateContact(r.Context(), id, in)
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	respond.JSON(w, http.StatusOK, contact)
}

func (h *Handler) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	if err := h.profiles.DeleteContact(r.Context(), id); err != nil {
		respond.Error(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCallContact 返回客户端需要打开的 tel: 链接。
func (h *Handler) handleCallContact(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, err, nil)
		return
	}
	uri, err := h.profiles.CallContact(r.Context(), id)
	if err != nil {
		respond.Error(w, err, h.notices)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"uri": uri})
}
