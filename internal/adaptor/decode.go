package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"backoffice/internal/dto/request"
	"backoffice/internal/usecase"
	"backoffice/pkg/storage"
	"backoffice/pkg/utils"

	"github.com/go-chi/chi/v5"
)

const (
	maxJSONBody = 1 << 20
	// an avatar plus the identity fields
	maxMultipartBody = usecase.MaxAvatarSize + 1<<20
	sniffLen         = 512
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return badRequest("Invalid request body", err)
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// decodeIdentity reads a JSON or multipart identity payload. The returned
// cleanup releases multipart temp files and must be called once the
// workflow is done with the avatar.
func decodeIdentity(w http.ResponseWriter, r *http.Request) (*usecase.IdentityInput, func(), error) {
	noop := func() {}

	if !isMultipart(r) {
		input := &usecase.IdentityInput{}
		if err := decodeJSON(w, r, &input.IdentityRequest); err != nil {
			return nil, noop, err
		}
		return input, noop, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(maxMultipartBody); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, noop, err
		}
		return nil, noop, badRequest("Invalid multipart body", err)
	}
	cleanup := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	input, err := identityFromForm(r.MultipartForm)
	if err != nil {
		cleanup()
		return nil, noop, err
	}

	if headers := r.MultipartForm.File["avatar"]; len(headers) > 0 {
		avatar, closeAvatar, err := openUpload(headers[0])
		if err != nil {
			cleanup()
			return nil, noop, badRequest("Invalid avatar upload", err)
		}
		input.Avatar = avatar
		release := cleanup
		cleanup = func() {
			closeAvatar()
			release()
		}
	}

	return input, cleanup, nil
}

func identityFromForm(form *multipart.Form) (*usecase.IdentityInput, error) {
	input := &usecase.IdentityInput{}
	req := &input.IdentityRequest

	req.Name = formValue(form, "name")
	req.Email = formValue(form, "email")
	req.Password = formValue(form, "password")
	req.PasswordConfirmation = formValue(form, "password_confirmation")
	req.Phone = optionalFormValue(form, "phone")
	req.Address = optionalFormValue(form, "address")
	req.State = optionalFormValue(form, "state")
	req.City = optionalFormValue(form, "city")
	req.PostCode = optionalFormValue(form, "post_code")
	req.CompanyName = optionalFormValue(form, "company_name")
	req.TaxID = optionalFormValue(form, "tax_id")
	req.SendWelcome = formBool(form, "send_welcome")

	if raw := strings.TrimSpace(formValue(form, "country_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, usecase.NewValidationError(map[string]string{"country_id": "Must be a whole number"})
		}
		req.CountryID = &id
	}

	return input, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func optionalFormValue(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func formBool(form *multipart.Form, key string) bool {
	switch strings.ToLower(strings.TrimSpace(formValue(form, key))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// openUpload sniffs the part's content type from its first bytes rather
// than trusting the client header.
func openUpload(header *multipart.FileHeader) (*storage.File, func(), error) {
	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, nil, err
	}

	return &storage.File{
		Name:        header.Filename,
		ContentType: http.DetectContentType(buf[:n]),
		Size:        header.Size,
		Body:        f,
	}, func() { f.Close() }, nil
}

func listRequest(r *http.Request) request.ListRequest {
	query := r.URL.Query()
	return request.ListRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 0),
		Search:  query.Get("search"),
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return 0, badRequest("Invalid id", err)
	}
	return id, nil
}

func actorFrom(r *http.Request) usecase.Actor {
	if id, ok := utils.GetActorIDFromContext(r.Context()); ok {
		return usecase.UserActor(id)
	}
	return usecase.SystemActor()
}

// decodeBulkDelete reads {"ids": [...]}; the services validate the list.
func decodeBulkDelete(w http.ResponseWriter, r *http.Request) ([]int64, error) {
	var req request.BulkDeleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	return req.IDs, nil
}
