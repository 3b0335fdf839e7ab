package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/data/entity"
	"backoffice/internal/data/repository"
	"backoffice/internal/dto/request"
	"backoffice/pkg/database"
	"backoffice/pkg/metrics"
	"backoffice/pkg/notification"
	"backoffice/pkg/storage"
	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

const (
	MaxAvatarSize = 2 << 20

	msgEmailTaken     = "The email has already been taken"
	msgCountryInvalid = "The selected country is invalid"
	msgAvatarType     = "The avatar must be an image (jpeg, png, gif, webp)"
	msgAvatarSize     = "The avatar may not be greater than 2048 kilobytes"

	cleanupTimeout = 10 * time.Second
)

var avatarContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IdentityKind configures the workflow for one role.
type IdentityKind struct {
	Role         entity.UserRole
	Subject      string // audit subject and notification template prefix
	Namespace    string // avatar storage namespace
	WithProfile  bool
	NotifyAdmins bool
}

var (
	ClientKind = IdentityKind{
		Role:         entity.RoleClient,
		Subject:      "client",
		Namespace:    "avatars/clients",
		WithProfile:  true,
		NotifyAdmins: true,
	}
	StaffKind = IdentityKind{
		Role:      entity.RoleStaff,
		Subject:   "team",
		Namespace: "avatars/team",
	}
)

// IdentityInput is a create or update request plus its optional avatar.
type IdentityInput struct {
	request.IdentityRequest
	Avatar *storage.File
}

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error
}

type WorkflowDeps struct {
	Repo       *repository.Repository
	Tx         Transactor // defaults to Repo
	Storage    storage.FileStorage
	Notifier   notification.Dispatcher
	Audit      AuditLog // defaults to NopAuditLog
	BcryptCost int
	PageSize   int
	Log        *zap.Logger
}

// IdentityWorkflow performs role-scoped identity writes: identity and
// profile in one transaction, then notifications and audit as best-effort
// follow-ups.
type IdentityWorkflow struct {
	kind       IdentityKind
	repo       *repository.Repository
	tx         Transactor
	storage    storage.FileStorage
	notifier   notification.Dispatcher
	audit      AuditLog
	bcryptCost int
	log        *zap.Logger
}

func NewIdentityWorkflow(kind IdentityKind, deps WorkflowDeps) *IdentityWorkflow {
	tx := deps.Tx
	if tx == nil {
		tx = deps.Repo
	}
	audit := deps.Audit
	if audit == nil {
		audit = NopAuditLog{}
	}

	return &IdentityWorkflow{
		kind:       kind,
		repo:       deps.Repo,
		tx:         tx,
		storage:    deps.Storage,
		notifier:   deps.Notifier,
		audit:      audit,
		bcryptCost: deps.BcryptCost,
		log:        deps.Log.With(zap.String("workflow", kind.Subject)),
	}
}

func (w *IdentityWorkflow) Kind() IdentityKind { return w.kind }

func (w *IdentityWorkflow) filter(search string) repository.UserFilter {
	return repository.UserFilter{
		Role:        w.kind.Role,
		Search:      search,
		WithProfile: w.kind.WithProfile,
	}
}

// AvatarURL resolves a stored avatar path to its public address.
func (w *IdentityWorkflow) AvatarURL(path string) string {
	return w.storage.URL(path)
}

// Find loads an identity of this workflow's role, with its profile when
// the role keeps one.
func (w *IdentityWorkflow) Find(ctx context.Context, id int64) (*entity.User, error) {
	user, err := w.repo.User.FindByIDAndRole(ctx, id, w.kind.Role)
	if err != nil {
		w.log.Error("Failed to find identity", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("find %s %d: %w", w.kind.Subject, id, err)
	}
	if user == nil {
		return nil, notFound(w.kind.Subject, id)
	}

	if w.kind.WithProfile {
		profile, err := w.repo.Profile.FindByUserID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("find profile of %s %d: %w", w.kind.Subject, id, err)
		}
		user.Profile = profile
	}

	return user, nil
}

func (w *IdentityWorkflow) Create(ctx context.Context, actor Actor, input *IdentityInput) (*entity.User, error) {
	// 1. Validate, including advisory uniqueness and references
	if err := w.validate(ctx, input, 0); err != nil {
		return nil, err
	}

	// 2. Hash password, generating a temporary one when omitted
	hash, err := w.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         w.kind.Role,
	}

	// 3. Store the avatar before touching the database
	avatarPath, err := w.storeAvatar(ctx, input.Avatar)
	if err != nil {
		return nil, err
	}
	user.AvatarPath = avatarPath

	// 4. Identity and profile commit together
	err = w.tx.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		if w.kind.WithProfile && input.HasProfileFields() {
			profile := profileFromInput(user.ID, &input.IdentityRequest)
			if err := tx.Profile.Upsert(ctx, profile); err != nil {
				return err
			}
			user.Profile = profile
		}
		return nil
	})
	if err != nil {
		w.discardAvatar(ctx, avatarPath)
		return nil, w.writeError("create", err)
	}

	metrics.IdentityWrite(w.kind.Subject, "created", 1)
	w.log.Info("Identity created", zap.Int64("id", user.ID), zap.String("email", user.Email))

	// 5. Best-effort follow-ups
	if input.SendWelcome {
		w.notify(ctx, user)
	}
	w.record(ctx, actor, "created", user.ID)

	return user, nil
}

func (w *IdentityWorkflow) Update(ctx context.Context, actor Actor, id int64, input *IdentityInput) (*entity.User, error) {
	user, err := w.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := w.validate(ctx, input, user.ID); err != nil {
		return nil, err
	}

	user.Name = input.Name
	user.Email = input.Email
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Password != "" {
		hash, err := w.hashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.Role = w.kind.Role

	previousAvatar := user.AvatarPath
	avatarPath, err := w.storeAvatar(ctx, input.Avatar)
	if err != nil {
		return nil, err
	}
	if avatarPath != nil {
		user.AvatarPath = avatarPath
	}

	// an existing profile is rewritten even when every field was cleared
	writeProfile := w.kind.WithProfile && (input.HasProfileFields() || user.Profile != nil)

	err = w.tx.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		if writeProfile {
			profile := profileFromInput(user.ID, &input.IdentityRequest)
			if err := tx.Profile.Upsert(ctx, profile); err != nil {
				return err
			}
			user.Profile = profile
		}
		return nil
	})
	if err != nil {
		w.discardAvatar(ctx, avatarPath)
		return nil, w.writeError("update", err)
	}

	if avatarPath != nil {
		w.discardAvatar(ctx, previousAvatar)
	}

	metrics.IdentityWrite(w.kind.Subject, "updated", 1)
	w.log.Info("Identity updated", zap.Int64("id", user.ID))

	if input.SendWelcome {
		w.notify(ctx, user)
	}
	w.record(ctx, actor, "updated", user.ID)

	return user, nil
}

func (w *IdentityWorkflow) Delete(ctx context.Context, actor Actor, id int64) error {
	user, err := w.repo.User.FindByIDAndRole(ctx, id, w.kind.Role)
	if err != nil {
		return fmt.Errorf("find %s %d: %w", w.kind.Subject, id, err)
	}
	if user == nil {
		return notFound(w.kind.Subject, id)
	}

	// a concurrent delete surfaces as ErrNotFound
	if err := w.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(w.kind.Subject, id)
		}
		w.log.Error("Failed to delete identity", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("delete %s %d: %w", w.kind.Subject, id, err)
	}

	metrics.IdentityWrite(w.kind.Subject, "deleted", 1)
	w.record(ctx, actor, "deleted", id)
	w.discardAvatar(ctx, user.AvatarPath)

	return nil
}

// BulkDelete removes the listed identities holding this role. Ids that do
// not exist or hold another role are ignored.
func (w *IdentityWorkflow) BulkDelete(ctx context.Context, actor Actor, ids []int64) (int, error) {
	req := request.BulkDeleteRequest{IDs: ids}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return 0, NewValidationError(errs)
	}

	deleted, err := w.repo.User.DeleteByIDsAndRole(ctx, uniqueIDs(ids), w.kind.Role)
	if err != nil {
		w.log.Error("Failed to bulk delete identities", zap.Error(err), zap.Int64s("ids", ids))
		return 0, fmt.Errorf("bulk delete %s: %w", w.kind.Subject, err)
	}

	for _, user := range deleted {
		w.record(ctx, actor, "deleted", user.ID)
		w.discardAvatar(ctx, user.AvatarPath)
	}
	metrics.IdentityWrite(w.kind.Subject, "deleted", len(deleted))

	return len(deleted), nil
}

func (w *IdentityWorkflow) validate(ctx context.Context, input *IdentityInput, selfID int64) error {
	input.Normalize()

	fields := utils.ValidateStruct(&input.IdentityRequest)
	if fields == nil {
		fields = map[string]string{}
	}

	if _, invalid := fields["email"]; !invalid {
		existing, err := w.repo.User.FindByEmail(ctx, input.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if existing != nil && existing.ID != selfID {
			fields["email"] = msgEmailTaken
		}
	}

	if _, invalid := fields["country_id"]; !invalid && w.kind.WithProfile && input.CountryID != nil {
		country, err := w.repo.Country.FindByID(ctx, *input.CountryID)
		if err != nil {
			return fmt.Errorf("check country: %w", err)
		}
		if country == nil {
			fields["country_id"] = msgCountryInvalid
		}
	}

	if msg := validateAvatar(input.Avatar); msg != "" {
		fields["avatar"] = msg
	}

	if len(fields) > 0 {
		w.log.Warn("Identity validation failed", zap.Any("errors", fields))
		return NewValidationError(fields)
	}
	return nil
}

func validateAvatar(f *storage.File) string {
	if f == nil {
		return ""
	}
	if !avatarContentTypes[f.ContentType] {
		return msgAvatarType
	}
	if f.Size > MaxAvatarSize {
		return msgAvatarSize
	}
	return ""
}

func (w *IdentityWorkflow) hashPassword(plain string) (string, error) {
	if plain == "" {
		generated, err := utils.GenerateTemporaryPassword()
		if err != nil {
			return "", fmt.Errorf("generate temporary password: %w", err)
		}
		plain = generated
	}

	hash, err := utils.HashPassword(plain, w.bcryptCost)
	if err != nil {
		w.log.Error("Failed to hash password", zap.Error(err))
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (w *IdentityWorkflow) storeAvatar(ctx context.Context, f *storage.File) (*string, error) {
	if f == nil {
		return nil, nil
	}

	path, err := w.storage.Store(ctx, w.kind.Namespace, f)
	if err != nil {
		w.log.Error("Failed to store avatar", zap.Error(err))
		return nil, &StorageError{Op: "store avatar", Err: err}
	}
	return &path, nil
}

// discardAvatar removes a stored avatar, surviving request cancellation.
func (w *IdentityWorkflow) discardAvatar(ctx context.Context, path *string) {
	if path == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := w.storage.Delete(ctx, *path); err != nil {
		w.log.Warn("Failed to delete avatar", zap.Error(err), zap.String("path", *path))
	}
}

// writeError maps constraint violations the advisory checks could not
// catch (concurrent writers) onto field errors.
func (w *IdentityWorkflow) writeError(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s %s: %w", op, w.kind.Subject, err)
	}
	if constraint, ok := database.UniqueViolation(err); ok && constraint == "users_email_key" {
		return fieldError("email", msgEmailTaken)
	}
	if _, ok := database.ForeignKeyViolation(err); ok {
		return fieldError("country_id", msgCountryInvalid)
	}

	w.log.Error("Failed to write identity", zap.Error(err), zap.String("op", op))
	return fmt.Errorf("%s %s: %w", op, w.kind.Subject, err)
}

func (w *IdentityWorkflow) notify(ctx context.Context, user *entity.User) {
	payload := map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	}

	w.enqueue(ctx, notification.Message{
		Template: w.kind.Subject + ".welcome",
		To:       []string{user.Email},
		Payload:  payload,
	})

	if !w.kind.NotifyAdmins {
		return
	}

	admins, err := w.repo.User.FindEmailsByRole(ctx, entity.RoleAdmin)
	if err != nil {
		w.log.Warn("Failed to load administrator emails", zap.Error(err))
		return
	}
	for _, email := range admins {
		w.enqueue(ctx, notification.Message{
			Template: w.kind.Subject + ".created.admin",
			To:       []string{email},
			Payload:  payload,
		})
	}
}

func (w *IdentityWorkflow) enqueue(ctx context.Context, msg notification.Message) {
	if err := w.notifier.Enqueue(ctx, msg); err != nil {
		w.log.Warn("Failed to enqueue notification",
			zap.Error(err),
			zap.String("template", msg.Template),
			zap.Strings("to", msg.To),
		)
	}
}

func (w *IdentityWorkflow) record(ctx context.Context, actor Actor, event string, subjectID int64) {
	entry := AuditEntry{
		Actor:       actor,
		Event:       w.kind.Subject + "." + event,
		SubjectType: w.kind.Subject,
		SubjectID:   subjectID,
		Properties:  map[string]any{"user_id": subjectID},
	}
	if err := w.audit.Record(ctx, entry); err != nil {
		w.log.Warn("Failed to record audit entry", zap.Error(err), zap.String("event", entry.Event))
	}
}

func profileFromInput(userID int64, req *request.IdentityRequest) *entity.Profile {
	return &entity.Profile{
		UserID:      userID,
		Address:     req.Address,
		CountryID:   req.CountryID,
		State:       req.State,
		City:        req.City,
		PostCode:    req.PostCode,
		CompanyName: req.CompanyName,
		TaxID:       req.TaxID,
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
