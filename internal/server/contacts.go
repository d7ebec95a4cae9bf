package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amosley/joinboard/internal/models"
	"github.com/amosley/joinboard/internal/shared"
)

type contactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Color string `json:"color"`
}

// ListContacts returns the authenticated user's contacts ordered by name.
func (a *API) ListContacts(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	contacts, err := a.contacts.List(map[string]any{"owner_user_id": claims.UserID})
	if err != nil {
		a.logger.Error("failed to list contacts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	dtos := []contactDTO{}
	for _, c := range contacts {
		dtos = append(dtos, toContactDTO(c))
	}

	writeJSON(w, http.StatusOK, dtos)
}

// CreateContact adds a contact to the authenticated user's address book.
func (a *API) CreateContact(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact := models.NewContact(0, claims.UserID, req.Name)
	contact.SetEmail(req.Email)
	contact.SetPhone(req.Phone)
	contact.SetColor(req.Color)

	if err := a.contacts.Create(contact); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("failed to create contact", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toContactDTO(contact))
}

// UpdateContact modifies a contact owned by the authenticated user.
func (a *API) UpdateContact(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	contact, ok := a.ownedContact(w, r.PathValue("id"), claims.UserID)
	if !ok {
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact.SetName(req.Name)
	contact.SetEmail(req.Email)
	contact.SetPhone(req.Phone)
	contact.SetColor(req.Color)

	if err := a.contacts.Update(contact); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("failed to update contact", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toContactDTO(contact))
}

// DeleteContact removes a contact owned by the authenticated user.
func (a *API) DeleteContact(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	contact, ok := a.ownedContact(w, r.PathValue("id"), claims.UserID)
	if !ok {
		return
	}

	if err := a.contacts.Delete(contact.ID()); err != nil {
		a.logger.Error("failed to delete contact", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedContact loads the contact and enforces ownership. Contacts owned by
// someone else report not found rather than forbidden.
func (a *API) ownedContact(w http.ResponseWriter, id, userID string) (*models.Contact, bool) {
	contact, err := a.contacts.Get(id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeError(w, http.StatusNotFound, "contact not found")
			return nil, false
		}
		a.logger.Error("failed to load contact", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}

	if contact.OwnerUserID() != userID {
		writeError(w, http.StatusNotFound, "contact not found")
		return nil, false
	}

	return contact, true
}
