package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shoporders/backend/internal/application/identity"
)

// UserHandler serves the caller's profile and delivery contacts
type UserHandler struct {
	BaseHandler
	userService    *identity.UserService
	contactService *identity.ContactService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService, contactService *identity.ContactService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		contactService: contactService,
	}
}

// GetProfile godoc
// @ID           getUserDetails
// @Summary      Get the caller's profile
// @Tags         user
// @Produce      json
// @Success      200 {object} APIResponse[identity.UserInfo]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/details [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	info, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// UpdateProfile godoc
// @ID           updateUserDetails
// @Summary      Update the caller's profile
// @Description  Only the fields present in the body change. A new password must satisfy the password policy.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body identity.UpdateProfileRequest true "Profile changes"
// @Success      200 {object} APIResponse[identity.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/details [post]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req identity.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	info, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// ListContacts godoc
// @ID           listUserContacts
// @Summary      List the caller's contacts
// @Tags         contacts
// @Produce      json
// @Success      200 {object} APIResponse[[]identity.ContactResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/contact [get]
func (h *UserHandler) ListContacts(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	contacts, err := h.contactService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contacts)
}

// CreateContact godoc
// @ID           createUserContact
// @Summary      Add a contact
// @Description  City, street and phone are required
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        request body identity.ContactRequest true "Contact"
// @Success      201 {object} APIResponse[identity.ContactResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/contact [post]
func (h *UserHandler) CreateContact(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req identity.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contact, err := h.contactService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contact)
}

// UpdateContact godoc
// @ID           updateUserContact
// @Summary      Change a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        request body identity.UpdateContactRequest true "Contact id and changes"
// @Success      200 {object} APIResponse[identity.ContactResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/contact [put]
func (h *UserHandler) UpdateContact(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req identity.UpdateContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contact, err := h.contactService.Update(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// DeleteContacts godoc
// @ID           deleteUserContacts
// @Summary      Delete contacts
// @Description  items is a comma separated list of contact ids; only the caller's contacts are removed
// @Tags         contacts
// @Accept       json
// @Param        request body ItemsRequest true "Contact ids"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/contact [delete]
func (h *UserHandler) DeleteContacts(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	if _, err := h.contactService.Delete(c.Request.Context(), userID, h.bindItems(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
