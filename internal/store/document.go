package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"creatorsite/internal/domain"
	apperrors "creatorsite/pkg/errors"
)

// SchemaVersion is the layout version written into every document.
const SchemaVersion = 1

type document struct {
	SchemaVersion      int                        `json:"schema_version"`
	Leads              []domain.Lead              `json:"leads"`
	Emails             []domain.Email             `json:"emails"`
	BrandAssets        []domain.BrandAsset        `json:"brand_assets"`
	ContactSubmissions []domain.ContactSubmission `json:"contact_submissions"`
}

func emptyDocument() *document {
	return &document{
		SchemaVersion:      SchemaVersion,
		Leads:              []domain.Lead{},
		Emails:             []domain.Email{},
		BrandAssets:        []domain.BrandAsset{},
		ContactSubmissions: []domain.ContactSubmission{},
	}
}

// DocumentStore keeps every collection in one JSON file. Each operation is a
// full read, optional modify and write of the file under a process mutex.
// Concurrent updates to the same record are last-write-wins.
type DocumentStore struct {
	path   string
	mu     sync.Mutex
	now    func() time.Time
	logger *zap.Logger
}

// NewDocumentStore opens the document at path, creating it if it is missing.
// A present but unreadable document is an error and is never replaced.
func NewDocumentStore(path string, logger *zap.Logger, opts ...Option) (*DocumentStore, error) {
	o := buildOptions(opts)
	s := &DocumentStore{
		path:   path,
		now:    o.now,
		logger: logger.Named("store"),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, legacy, err := s.load()
	if err != nil {
		return nil, err
	}
	if legacy {
		s.logger.Info("Tagging legacy document with schema version", zap.String("path", path), zap.Int("schema_version", SchemaVersion))
		if err := s.save(doc); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Document store ready",
		zap.String("path", path),
		zap.Int("leads", len(doc.Leads)),
		zap.Int("emails", len(doc.Emails)),
	)
	return s, nil
}

// load reads the document. A missing file yields a freshly written empty
// document; legacy reports a document that carried no schema_version.
func (s *DocumentStore) load() (doc *document, legacy bool, err error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		doc = emptyDocument()
		if err := s.save(doc); err != nil {
			return nil, false, err
		}
		return doc, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Persistence("failed to read store document", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, false, apperrors.Persistence(fmt.Sprintf("store document %s is corrupt", s.path), err)
	}
	if top == nil {
		return nil, false, apperrors.Persistence(fmt.Sprintf("store document %s is not a JSON object", s.path), nil)
	}

	doc = &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, false, apperrors.Persistence(fmt.Sprintf("store document %s is corrupt", s.path), err)
	}

	switch {
	case doc.SchemaVersion == 0:
		doc.SchemaVersion = SchemaVersion
		legacy = true
	case doc.SchemaVersion > SchemaVersion:
		return nil, false, apperrors.Persistence(
			fmt.Sprintf("store document schema_version %d is newer than supported version %d", doc.SchemaVersion, SchemaVersion), nil)
	}

	if !hasCollection(top) {
		return nil, false, apperrors.Persistence(fmt.Sprintf("store document %s has no collections", s.path), nil)
	}

	if doc.Leads == nil {
		doc.Leads = []domain.Lead{}
	}
	if doc.Emails == nil {
		doc.Emails = []domain.Email{}
	}
	if doc.BrandAssets == nil {
		doc.BrandAssets = []domain.BrandAsset{}
	}
	if doc.ContactSubmissions == nil {
		doc.ContactSubmissions = []domain.ContactSubmission{}
	}
	return doc, legacy, nil
}

func hasCollection(top map[string]json.RawMessage) bool {
	for _, key := range []string{"leads", "emails", "brand_assets", "contact_submissions"} {
		if _, ok := top[key]; ok {
			return true
		}
	}
	return false
}

// save writes the document to a temp file beside the target and renames it
// into place.
func (s *DocumentStore) save(doc *document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Persistence("failed to create store directory", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.Persistence("failed to encode store document", err)
	}

	tmp, err := os.CreateTemp(dir, ".database-*.json")
	if err != nil {
		return apperrors.Persistence("failed to write store document", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.Persistence("failed to write store document", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.Persistence("failed to sync store document", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Persistence("failed to write store document", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return apperrors.Persistence("failed to replace store document", err)
	}
	return nil
}

// view runs fn against a freshly loaded document.
func (s *DocumentStore) view(op string, fn func(doc *document) error) (err error) {
	start := time.Now()
	defer func() { observe(op, start, notFoundIsSuccess(err)) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

// mutate runs fn against a freshly loaded document and writes the result
// back. fn returning an error (including ErrNotFound) skips the write.
func (s *DocumentStore) mutate(op string, fn func(doc *document) error) (err error) {
	start := time.Now()
	defer func() { observe(op, start, notFoundIsSuccess(err)) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

// ListLeads returns every lead in insertion order.
func (s *DocumentStore) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := s.view("list_leads", func(doc *document) error {
		leads = doc.Leads
		return nil
	})
	return leads, err
}

func (s *DocumentStore) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	var lead *domain.Lead
	err := s.view("get_lead", func(doc *document) error {
		i := indexOfLead(doc.Leads, id)
		if i < 0 {
			return ErrNotFound
		}
		lead = &doc.Leads[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *DocumentStore) ListLeadsByStatus(ctx context.Context, status domain.LeadStatus) ([]domain.Lead, error) {
	leads := []domain.Lead{}
	err := s.view("list_leads_by_status", func(doc *document) error {
		for _, l := range doc.Leads {
			if l.Status == status {
				leads = append(leads, l)
			}
		}
		return nil
	})
	return leads, err
}

func (s *DocumentStore) CreateLead(ctx context.Context, lead *domain.Lead) error {
	return s.mutate("create_lead", func(doc *document) error {
		doc.Leads = append(doc.Leads, *lead)
		return nil
	})
}

func (s *DocumentStore) BulkCreateLeads(ctx context.Context, leads []domain.Lead) error {
	return s.mutate("bulk_create_leads", func(doc *document) error {
		doc.Leads = append(doc.Leads, leads...)
		return nil
	})
}

func (s *DocumentStore) UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (*domain.Lead, error) {
	var updated domain.Lead
	err := s.mutate("update_lead", func(doc *document) error {
		i := indexOfLead(doc.Leads, id)
		if i < 0 {
			return ErrNotFound
		}
		patch.Apply(&doc.Leads[i], s.now())
		updated = doc.Leads[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *DocumentStore) DeleteLead(ctx context.Context, id string) (bool, error) {
	err := s.mutate("delete_lead", func(doc *document) error {
		i := indexOfLead(doc.Leads, id)
		if i < 0 {
			return ErrNotFound
		}
		doc.Leads = append(doc.Leads[:i], doc.Leads[i+1:]...)

		kept := doc.Emails[:0]
		for _, e := range doc.Emails {
			if e.LeadID != id {
				kept = append(kept, e)
			}
		}
		doc.Emails = kept
		return nil
	})
	return deleted(err)
}

func (s *DocumentStore) ListEmailsByLead(ctx context.Context, leadID string) ([]domain.Email, error) {
	emails := []domain.Email{}
	err := s.view("list_emails", func(doc *document) error {
		for _, e := range doc.Emails {
			if e.LeadID == leadID {
				emails = append(emails, e)
			}
		}
		return nil
	})
	return emails, err
}

func (s *DocumentStore) GetEmail(ctx context.Context, id string) (*domain.Email, error) {
	var email *domain.Email
	err := s.view("get_email", func(doc *document) error {
		i := indexOfEmail(doc.Emails, id)
		if i < 0 {
			return ErrNotFound
		}
		email = &doc.Emails[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return email, nil
}

func (s *DocumentStore) CreateEmail(ctx context.Context, email *domain.Email) error {
	return s.mutate("create_email", func(doc *document) error {
		doc.Emails = append(doc.Emails, *email)
		return nil
	})
}

func (s *DocumentStore) UpdateEmail(ctx context.Context, id string, patch domain.EmailPatch) (*domain.Email, error) {
	var updated domain.Email
	err := s.mutate("update_email", func(doc *document) error {
		i := indexOfEmail(doc.Emails, id)
		if i < 0 {
			return ErrNotFound
		}
		patch.Apply(&doc.Emails[i])
		updated = doc.Emails[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *DocumentStore) DeleteEmail(ctx context.Context, id string) (bool, error) {
	err := s.mutate("delete_email", func(doc *document) error {
		i := indexOfEmail(doc.Emails, id)
		if i < 0 {
			return ErrNotFound
		}
		doc.Emails = append(doc.Emails[:i], doc.Emails[i+1:]...)
		return nil
	})
	return deleted(err)
}

func (s *DocumentStore) ListContactSubmissions(ctx context.Context) ([]domain.ContactSubmission, error) {
	var subs []domain.ContactSubmission
	err := s.view("list_contact_submissions", func(doc *document) error {
		subs = doc.ContactSubmissions
		return nil
	})
	return subs, err
}

// RecordInquiry appends both records in one document write.
func (s *DocumentStore) RecordInquiry(ctx context.Context, sub *domain.ContactSubmission, lead *domain.Lead) error {
	return s.mutate("record_inquiry", func(doc *document) error {
		doc.ContactSubmissions = append(doc.ContactSubmissions, *sub)
		doc.Leads = append(doc.Leads, *lead)
		return nil
	})
}

func (s *DocumentStore) ListBrandAssets(ctx context.Context) ([]domain.BrandAsset, error) {
	var assets []domain.BrandAsset
	err := s.view("list_brand_assets", func(doc *document) error {
		assets = doc.BrandAssets
		return nil
	})
	return assets, err
}

func (s *DocumentStore) CreateBrandAsset(ctx context.Context, asset *domain.BrandAsset) error {
	return s.mutate("create_brand_asset", func(doc *document) error {
		doc.BrandAssets = append(doc.BrandAssets, *asset)
		return nil
	})
}

func (s *DocumentStore) DeleteBrandAsset(ctx context.Context, id string) (bool, error) {
	err := s.mutate("delete_brand_asset", func(doc *document) error {
		for i, a := range doc.BrandAssets {
			if a.ID == id {
				doc.BrandAssets = append(doc.BrandAssets[:i], doc.BrandAssets[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
	return deleted(err)
}

// Ping checks the document can still be read.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.view("ping", func(*document) error { return nil })
}

// Close is a no-op; every write is already on disk.
func (s *DocumentStore) Close() error {
	return nil
}

func indexOfLead(leads []domain.Lead, id string) int {
	for i := range leads {
		if leads[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfEmail(emails []domain.Email, id string) int {
	for i := range emails {
		if emails[i].ID == id {
			return i
		}
	}
	return -1
}

func notFoundIsSuccess(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func deleted(err error) (bool, error) {
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
