package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/a3lachi/servauth/config"
	"github.com/a3lachi/servauth/internal/domain/entity"
	repo "github.com/a3lachi/servauth/internal/domain/repository"
	"github.com/a3lachi/servauth/pkg/helpers"
)

func keyResetToken(t string) string  { return "pwd:reset:token:" + t }
func keyVerifyToken(t string) string { return "email:verify:token:" + t }

// Service is the concrete auth delegate plus the profile operations built
// on the persistence adapter. GCS and ES are optional; a nil client
// disables the corresponding feature.
type Service struct {
	Repo         repo.UserRepository
	Sessions     SessionStore
	Tokens       TokenStore
	JWT          *helpers.JWTManager
	Logger       *logrus.Logger
	Cfg          *config.Config
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewService(r repo.UserRepository, sessions SessionStore, tokens TokenStore, jwt *helpers.JWTManager, logger *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		Repo:     r,
		Sessions: sessions,
		Tokens:   tokens,
		JWT:      jwt,
		Logger:   logger,
		Cfg:      cfg,
	}
}

func genToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *Service) SignUp(ctx context.Context, email, password, name string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Name: name}
	if err := s.Repo.Create(ctx, u, hash); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("user registered")
	}
	return u, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string, meta SessionMeta) (*entity.User, *entity.Session, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, nil, ErrInvalidCredentials
	}
	hash, err := s.Repo.GetCredential(ctx, u.ID)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(hash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	sid := uuid.NewString()
	token, exp, err := s.JWT.GenerateSessionToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate session token failed")
		}
		return nil, nil, err
	}
	now := time.Now().UTC()
	sess := &entity.Session{
		ID:        sid,
		UserID:    u.ID,
		Token:     token,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		ExpiresAt: exp,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		return nil, nil, err
	}
	return u, sess, nil
}

func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	return s.Sessions.Delete(ctx, sessionID)
}

func (s *Service) GetSession(ctx context.Context, token string) (*entity.User, *entity.Session, error) {
	claims, err := s.JWT.ParseSessionToken(token)
	if err != nil {
		return nil, nil, ErrNoSession
	}
	sess, err := s.Sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, nil, err
	}
	// A refresh rotates the stored token; a superseded token no longer
	// resolves even while its exp claim is still in the future.
	if sess == nil || sess.UserID != claims.UserID || sess.Token != token {
		return nil, nil, ErrNoSession
	}
	if !sess.ExpiresAt.After(time.Now()) {
		return nil, nil, ErrNoSession
	}
	u, err := s.Repo.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrNoSession
		}
		return nil, nil, err
	}
	return u, sess, nil
}

// RefreshSession rotates the session token and slides the expiry window.
// The slid expiry must live in the token's exp claim, not just on the
// stored record; ParseSessionToken enforces exp on every request.
func (s *Service) RefreshSession(ctx context.Context, token string) (*entity.User, *entity.Session, error) {
	u, sess, err := s.GetSession(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	fresh, exp, err := s.JWT.GenerateSessionToken(sess.UserID, sess.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("session_id", sess.ID).Error("rotate session token failed")
		}
		return nil, nil, err
	}
	now := time.Now().UTC()
	if err := s.Sessions.Refresh(ctx, sess.ID, fresh, exp, now); err != nil {
		return nil, nil, err
	}
	sess.Token = fresh
	sess.ExpiresAt = exp
	sess.UpdatedAt = now
	return u, sess, nil
}

func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		// Unknown emails get the same outward behavior as known ones.
		if s.Logger != nil {
			s.Logger.WithField("email", email).Debug("password reset requested for unknown email")
		}
		return "", nil
	}
	tok, err := genToken(32)
	if err != nil {
		return "", err
	}
	if err := s.Tokens.Put(ctx, keyResetToken(tok), u.ID, s.Cfg.ResetTokenTTL); err != nil {
		return "", err
	}
	return s.Cfg.ResetPasswordURL + "?token=" + tok, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	uid, err := s.Tokens.Get(ctx, keyResetToken(token))
	if err != nil {
		return err
	}
	if uid == "" {
		return ErrInvalidToken
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, uid, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	_ = s.Tokens.Del(ctx, keyResetToken(token))
	if s.Logger != nil {
		s.Logger.WithField("user_id", uid).Info("password reset")
	}
	return nil
}

func (s *Service) VerifyInit(ctx context.Context, userID string) (string, bool, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", false, ErrUserNotFound
		}
		return "", false, err
	}
	if u.EmailVerified {
		return "", true, nil
	}
	tok, err := genToken(32)
	if err != nil {
		return "", false, err
	}
	if err := s.Tokens.Put(ctx, keyVerifyToken(tok), u.ID, s.Cfg.VerifyTokenTTL); err != nil {
		return "", false, err
	}
	return s.Cfg.VerifyEmailURL + "?token=" + tok, false, nil
}

func (s *Service) VerifyConfirm(ctx context.Context, token string) error {
	uid, err := s.Tokens.Get(ctx, keyVerifyToken(token))
	if err != nil {
		return err
	}
	if uid == "" {
		return ErrInvalidToken
	}
	if err := s.Repo.SetVerified(ctx, uid); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	_ = s.Tokens.Del(ctx, keyVerifyToken(token))
	return nil
}

var _ Delegate = (*Service)(nil)

// --- profile operations (persistence adapter callers) ---

func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in repo.ProfileUpdate) (*entity.User, error) {
	u, err := s.Repo.UpdateProfile(ctx, userID, in)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repo.ErrEmailTaken):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// DeleteAccount removes the user row; accounts cascade in postgres and the
// caller's session is revoked by the handler via SignOut.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.Repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.deleteUserDoc(ctx, userID)
	if s.Logger != nil {
		s.Logger.WithField("user_id", userID).Info("account deleted")
	}
	return nil
}

// UploadAvatar stores the image in GCS and records its public URL on the
// profile.
func (s *Service) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, id+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	return s.UpdateProfile(ctx, userID, repo.ProfileUpdate{AvatarURL: &url})
}

// --- Elasticsearch user index (optional) ---

func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (s *Service) deleteUserDoc(ctx context.Context, userID string) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: userID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchUsers performs a simple multi_match search on email and name.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
