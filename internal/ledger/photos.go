package ledger

import (
	"context"
	"strings"

	"campus-connect-backend/internal/kvstore"
	"campus-connect-backend/internal/models"
)

// Photos keeps the photos attached to each event
type Photos struct {
	doc  *document
	opts options
}

// NewPhotos creates the photo ledger over store
func NewPhotos(store kvstore.Store, opts ...Option) *Photos {
	o := buildOptions(opts)
	return &Photos{doc: newDocument("photos", PhotosKey, store, o), opts: o}
}

func readPhotos(ctx context.Context, d *document) (map[string][]models.Photo, error) {
	var photos map[string][]models.Photo
	if err := d.read(ctx, &photos); err != nil {
		return nil, err
	}
	if photos == nil {
		photos = map[string][]models.Photo{}
	}
	return photos, nil
}

// List returns the photos of eventID in upload order
func (p *Photos) List(ctx context.Context, eventID string) []models.Photo {
	photos, err := readPhotos(ctx, p.doc)
	if err != nil {
		p.doc.recovered("list", err)
		return []models.Photo{}
	}
	p.doc.observe("list", nil)

	if list := photos[eventID]; list != nil {
		return list
	}
	return []models.Photo{}
}

// Add appends a photo reference to eventID. The uri is not inspected.
func (p *Photos) Add(ctx context.Context, eventID, uri, uploadedBy string) (photo models.Photo, err error) {
	defer func() { p.doc.observe("add", err) }()

	if strings.TrimSpace(uploadedBy) == "" {
		uploadedBy = p.opts.uploader
	}

	unlock := p.doc.lock()
	defer unlock()

	photos, err := readPhotos(ctx, p.doc)
	if err != nil {
		return models.Photo{}, err
	}

	now := p.opts.timestamp()
	photo = models.Photo{
		ID:         p.opts.recordID(now),
		URI:        uri,
		UploadedBy: uploadedBy,
		Date:       now,
	}
	photos[eventID] = append(photos[eventID], photo)

	if err := p.doc.write(ctx, photos); err != nil {
		return models.Photo{}, err
	}
	return photo, nil
}

// Remove deletes the photo photoID from eventID. It reports false, without
// writing, when no such photo exists.
func (p *Photos) Remove(ctx context.Context, eventID, photoID string) (removed bool, err error) {
	defer func() { p.doc.observe("remove", err) }()

	unlock := p.doc.lock()
	defer unlock()

	photos, err := readPhotos(ctx, p.doc)
	if err != nil {
		return false, err
	}

	list, ok := photos[eventID]
	if !ok {
		return false, nil
	}
	idx := -1
	for i, photo := range list {
		if photo.ID == photoID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	kept := make([]models.Photo, 0, len(list)-1)
	kept = append(kept, list[:idx]...)
	kept = append(kept, list[idx+1:]...)
	photos[eventID] = kept

	if err := p.doc.write(ctx, photos); err != nil {
		return false, err
	}
	return true, nil
}
