package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"portfolio/internal/contact"
	"portfolio/internal/session"
)

// xhrSuccessMessage is the short confirmation returned to script clients.
const xhrSuccessMessage = "Your message has been sent successfully!"

// maxContactForm caps a contact form body, multipart or urlencoded.
const maxContactForm = 1 << 20

// contactResponse is the JSON body answered to XHR submissions.
type contactResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Errors  contact.Errors `json:"errors,omitempty"`
}

// parseContactForm fills r.PostForm from either form encoding, so both
// contact callers see the same fields whatever the client sent.
func parseContactForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactForm)
	if err := r.ParseMultipartForm(maxContactForm); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// formRenderer re-renders the page hosting a contact form.
type formRenderer func(w http.ResponseWriter, r *http.Request, status int, form contact.Form, errs contact.Errors, flash *session.Flash)

// submitContact runs a parsed contact form through the intake pipeline.
// Browsers are redirected to next with a flash on success and get the
// page back with field errors on failure; XHR clients get JSON either way.
func (p *Public) submitContact(w http.ResponseWriter, r *http.Request, next string, rerender formRenderer) {
	form := contact.FormFromRequest(r)

	res, err := p.contact.Submit(r.Context(), form)
	if err != nil {
		slog.Error("contact submission failed", "error", err)
		if wantsJSON(r) {
			writeJSON(w, http.StatusInternalServerError, contactResponse{
				Message: "Something went wrong. Please try again later.",
			})
			return
		}
		p.serverError(w, r)
		return
	}

	if !res.OK() {
		if wantsJSON(r) {
			writeJSON(w, http.StatusBadRequest, contactResponse{Errors: res.Errors})
			return
		}
		rerender(w, r, http.StatusBadRequest, form, res.Errors, &session.Flash{
			Level:   session.FlashError,
			Message: contact.FailureMessage,
		})
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, contactResponse{Success: true, Message: xhrSuccessMessage})
		return
	}
	session.SetFlash(w, session.Flash{Level: session.FlashSuccess, Message: contact.SuccessMessage}, p.secure)
	http.Redirect(w, r, next, http.StatusSeeOther)
}
