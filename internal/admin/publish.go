package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/contentsheet/internal/core"
	"github.com/JonMunkholm/contentsheet/internal/core/kinds"
	"github.com/JonMunkholm/contentsheet/internal/docs"
	"github.com/JonMunkholm/contentsheet/internal/logging"
	"github.com/JonMunkholm/contentsheet/internal/store"
)

// PublishTimeout bounds one publish or rollback against the store.
const PublishTimeout = 30 * time.Second

// Survey publish modes.
const (
	ModeCreate = "create"
	ModeUpdate = "update"
)

var (
	ErrUnknownMode       = errors.New("unknown publish mode")
	ErrManyActiveSurveys = errors.New("There are more than one active surveys!")
	ErrNothingToUpdate   = errors.New("There is no document to be updated!")
	ErrUploadNotFound    = errors.New("upload not found")
)

// Request is one bundle to publish.
type Request struct {
	Kind   string
	Bundle *docs.Bundle
	// Source names the bundle in the upload history, usually a file name.
	Source string
	// Mode applies to surveys only. Empty means ModeCreate.
	Mode string
}

// Result describes a finished publish.
type Result struct {
	UploadID     string       `json:"uploadId"`
	Action       store.Action `json:"action"`
	PartitionKey string       `json:"partitionKey"`
	Written      int          `json:"written"`
	Deleted      int64        `json:"deleted"`
	Deactivated  int          `json:"deactivated"`
}

// Publisher writes bundles to a store after the operator confirms the
// target store and any replacement of existing documents.
type Publisher struct {
	Store   store.Store
	Confirm Confirmer
	// Now stamps updatedAt fields and the upload history. Defaults to time.Now.
	Now func() time.Time
	// NewID returns upload ids. Defaults to uuid.NewString.
	NewID   func() string
	Timeout time.Duration
}

func (p *Publisher) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Publisher) newID() string {
	if p.NewID != nil {
		return p.NewID()
	}
	return uuid.NewString()
}

func (p *Publisher) confirm(format string, args ...any) error {
	if p.Confirm == nil {
		return nil
	}
	ok, err := p.Confirm.Confirm(fmt.Sprintf(format, args...))
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrAborted
	}
	return nil
}

func (p *Publisher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = PublishTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// Publish validates req.Bundle and writes it under its partition key.
// Declining any prompt returns core.ErrAborted with nothing written.
func (p *Publisher) Publish(ctx context.Context, req Request) (*Result, error) {
	configType, err := docs.ConfigType(req.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w %q", core.ErrUnknownKind, req.Kind)
	}
	if req.Bundle == nil {
		return nil, fmt.Errorf("%w: no documents", docs.ErrMalformedBundle)
	}
	if err := req.Bundle.Validate(configType); err != nil {
		return nil, err
	}

	pk := req.Bundle.PartitionKey()
	if err := p.confirm("Publish %d %s documents under %q to %s?", len(req.Bundle.Docs), req.Kind, pk, p.Store.Describe()); err != nil {
		return nil, err
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	existing, err := p.Store.ListPartition(ctx, pk)
	if err != nil {
		return nil, err
	}

	res := &Result{UploadID: p.newID(), PartitionKey: pk}
	log := logging.WithFields(ctx, "upload_id", res.UploadID, "kind", req.Kind, "partition_key", pk)

	switch req.Kind {
	case kinds.CaseStudy:
		err = p.publishAll(ctx, res, req.Bundle.Docs, existing)
	case kinds.LearningTopic:
		err = p.publishTopic(ctx, res, req.Bundle.Docs, existing)
	case kinds.Survey:
		survey, ok := req.Bundle.Config(configType)
		if !ok {
			err = fmt.Errorf("%w: expected exactly one %s document", docs.ErrMalformedBundle, configType)
			break
		}
		err = p.publishSurvey(ctx, res, req.Mode, survey, existing)
	default:
		err = fmt.Errorf("%w %q", core.ErrUnknownKind, req.Kind)
	}
	if err != nil {
		return nil, err
	}

	if err := p.Store.RecordUpload(ctx, store.Upload{
		ID:           res.UploadID,
		Action:       res.Action,
		Kind:         req.Kind,
		PartitionKey: pk,
		Docs:         res.Written,
		Source:       req.Source,
		CreatedAt:    p.now(),
	}); err != nil {
		log.Warn("documents written but upload history failed", "error", err)
	}

	log.Info("published",
		"action", res.Action,
		"written", res.Written,
		"deleted", res.Deleted,
		"deactivated", res.Deactivated,
	)
	return res, nil
}

// publishAll inserts ds into an empty partition, or replaces every
// existing document once the operator agrees.
func (p *Publisher) publishAll(ctx context.Context, res *Result, ds, existing []docs.Doc) error {
	if len(existing) == 0 {
		return p.insert(ctx, res, ds)
	}
	if err := p.confirm("%d documents already exist under %q and will be replaced.", len(existing), res.PartitionKey); err != nil {
		return err
	}
	deleted, err := p.Store.Replace(ctx, res.UploadID, res.PartitionKey, nil, ds)
	if err != nil {
		return err
	}
	res.Action, res.Written, res.Deleted = store.ActionReplace, len(ds), deleted
	return nil
}

// publishTopic replaces a topic's documents but keeps its self-assessment
// statements: statements of exercises still present are updated in place,
// the rest are deactivated.
func (p *Publisher) publishTopic(ctx context.Context, res *Result, ds, existing []docs.Doc) error {
	if len(existing) == 0 {
		return p.insert(ctx, res, ds)
	}
	if err := p.confirm("%d documents already exist under %q and will be replaced.", len(existing), res.PartitionKey); err != nil {
		return err
	}

	content, parsed := splitStatements(ds)
	_, stored := splitStatements(existing)
	merged := docs.MergeStatements(parsed, stored, p.now().UnixMilli())

	deleted, err := p.Store.Replace(ctx, res.UploadID, res.PartitionKey, []string{docs.TypeStatement}, append(content, merged...))
	if err != nil {
		return err
	}
	res.Action, res.Written, res.Deleted = store.ActionReplace, len(content)+len(merged), deleted
	for _, d := range merged {
		if !d.Active() {
			res.Deactivated++
		}
	}
	return nil
}

func (p *Publisher) publishSurvey(ctx context.Context, res *Result, mode string, survey docs.Doc, existing []docs.Doc) error {
	var active []docs.Doc
	var same docs.Doc
	for _, d := range existing {
		if d.Type() != docs.TypeSurvey {
			continue
		}
		if d.ID() == survey.ID() {
			same = d
		} else if d.Active() {
			active = append(active, d)
		}
	}

	switch mode {
	case ModeCreate, "":
		if same != nil {
			return fmt.Errorf("%w: %s", store.ErrExists, survey.ID())
		}
		if len(active) > 0 {
			if err := p.confirm("%d active surveys under %q will be deactivated.", len(active), res.PartitionKey); err != nil {
				return err
			}
			ids := make([]string, len(active))
			for i, d := range active {
				ids[i] = d.ID()
			}
			if err := p.Store.SetActive(ctx, ids, false, p.now().UnixMilli()); err != nil {
				return err
			}
			res.Deactivated = len(ids)
		}
		return p.insert(ctx, res, []docs.Doc{survey})

	case ModeUpdate:
		target := same
		if target == nil {
			switch len(active) {
			case 0:
				return ErrNothingToUpdate
			case 1:
				target = active[0]
			default:
				return ErrManyActiveSurveys
			}
		}
		if err := p.confirm("Survey %s will be updated.", target.ID()); err != nil {
			return err
		}
		updated := survey.Clone()
		updated["_id"] = target.ID()
		updated["createdAt"] = target["createdAt"]
		updated["updatedAt"] = p.now().UnixMilli()
		if _, err := p.Store.Replace(ctx, res.UploadID, res.PartitionKey, []string{docs.TypeSurvey}, []docs.Doc{updated}); err != nil {
			return err
		}
		res.Action, res.Written = store.ActionReplace, 1
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

func (p *Publisher) insert(ctx context.Context, res *Result, ds []docs.Doc) error {
	if err := p.Store.Insert(ctx, res.UploadID, ds); err != nil {
		return err
	}
	res.Action, res.Written = store.ActionCreate, len(ds)
	return nil
}

func splitStatements(ds []docs.Doc) (content, statements []docs.Doc) {
	for _, d := range ds {
		if d.Type() == docs.TypeStatement {
			statements = append(statements, d)
		} else {
			content = append(content, d)
		}
	}
	return content, statements
}

// Rollback deletes every document written by uploadID and records the
// rollback in the upload history. Documents that the upload replaced are
// not restored.
func (p *Publisher) Rollback(ctx context.Context, uploadID string) (*store.Upload, error) {
	if err := p.confirm("Delete every document of upload %s from %s?", uploadID, p.Store.Describe()); err != nil {
		return nil, err
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	deleted, err := p.Store.DeleteUpload(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUploadNotFound, uploadID)
	}

	entry := store.Upload{
		ID:        p.newID(),
		Action:    store.ActionRollback,
		Docs:      int(deleted),
		RelatedID: uploadID,
		CreatedAt: p.now(),
	}
	if prev := p.findUpload(ctx, uploadID); prev != nil {
		entry.Kind, entry.PartitionKey = prev.Kind, prev.PartitionKey
	}
	if err := p.Store.RecordUpload(ctx, entry); err != nil {
		return nil, err
	}

	logging.WithFields(ctx, "upload_id", uploadID).Info("rolled back", "deleted", deleted)
	return &entry, nil
}

// findUpload looks for uploadID among recent history entries.
func (p *Publisher) findUpload(ctx context.Context, uploadID string) *store.Upload {
	uploads, err := p.Store.Uploads(ctx, store.UploadFilter{Limit: 1000})
	if err != nil {
		return nil
	}
	for i := range uploads {
		if uploads[i].ID == uploadID {
			return &uploads[i]
		}
	}
	return nil
}
