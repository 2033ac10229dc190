package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"storefront/internal/domain/product"
	"storefront/internal/repository"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/validator"
)

// ImageUpload is one file of a multi-image upload. Open is called once.
type ImageUpload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadSeekCloser, error)
}

// CatalogOptions bounds image uploads.
type CatalogOptions struct {
	MaxImageBytes int64
	MaxImages     int
	UploadWorkers int
}

// Catalog manages products and their images.
type Catalog struct {
	products repository.ProductRepository
	images   ImageStore
	opts     CatalogOptions
}

func NewCatalog(products repository.ProductRepository, images ImageStore, opts CatalogOptions) *Catalog {
	if opts.UploadWorkers <= 0 {
		opts.UploadWorkers = 1
	}
	return &Catalog{products: products, images: images, opts: opts}
}

func (c *Catalog) CreateProduct(ctx context.Context, in product.CreateProductInput) (*product.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if err := validator.ProductName(in.Name); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if err := validator.Description(in.Description); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if in.Price < 0 {
		return nil, apperrors.InvalidInput(msgPriceNegative)
	}

	return c.products.Create(ctx, in)
}

// UpdateProduct applies only the fields set in the input.
func (c *Catalog) UpdateProduct(ctx context.Context, id int64, in product.UpdateProductInput) (*product.Product, error) {
	if in.IsEmpty() {
		return nil, apperrors.InvalidInput(msgEmptyProductUpdate)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validator.ProductName(name); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		in.Name = &name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if err := validator.Description(desc); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		in.Description = &desc
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, apperrors.InvalidInput(msgPriceNegative)
	}

	return c.products.Update(ctx, id, in)
}

// DeleteProduct removes the product row and then its stored images. A
// product referenced by any order cannot be deleted.
func (c *Catalog) DeleteProduct(ctx context.Context, id int64) error {
	keys, err := c.products.Delete(ctx, id)
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := c.images.DeleteObjects(ctx, keys); err != nil {
			log.Printf("Failed to delete images of product %d: %v", id, err)
		}
	}
	return nil
}

func (c *Catalog) ListProducts(ctx context.Context, filter product.ListFilter) ([]*product.Product, error) {
	return c.products.List(ctx, filter)
}

func (c *Catalog) GetProduct(ctx context.Context, id int64) (*product.Product, error) {
	return c.products.GetByID(ctx, id)
}

// UploadImages stores every file in object storage and then records them
// against the product. If anything fails, objects already written are
// removed again.
func (c *Catalog) UploadImages(ctx context.Context, productID int64, uploads []ImageUpload) ([]*product.Image, error) {
	if len(uploads) == 0 {
		return nil, apperrors.InvalidInput(msgNoImages)
	}
	if c.opts.MaxImages > 0 && len(uploads) > c.opts.MaxImages {
		return nil, apperrors.InvalidInput(fmt.Sprintf(msgTooManyImagesFmt, c.opts.MaxImages))
	}
	for _, u := range uploads {
		if c.opts.MaxImageBytes > 0 && u.Size > c.opts.MaxImageBytes {
			return nil, apperrors.InvalidInput(fmt.Sprintf(msgImageTooLargeFmt, u.Filename, c.opts.MaxImageBytes))
		}
	}

	if _, err := c.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	keys := make([]string, len(uploads))
	for i, u := range uploads {
		keys[i] = c.images.NewObjectKey(productID, u.Filename)
	}
	stored := make([]bool, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.UploadWorkers)
	for i, u := range uploads {
		g.Go(func() error {
			if err := c.putImage(gctx, keys[i], u); err != nil {
				return err
			}
			stored[i] = true
			return nil
		})
	}

	err := g.Wait()
	var images []*product.Image
	if err == nil {
		inputs := make([]product.CreateImageInput, len(keys))
		for i, key := range keys {
			inputs[i] = product.CreateImageInput{
				ProductID: productID,
				ObjectKey: key,
				URL:       c.images.PublicURL(key),
			}
		}
		images, err = c.products.AddImages(ctx, inputs)
	}
	if err != nil {
		c.discard(keys, stored)
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Internal(msgUploadImagesFailed, err)
	}

	return images, nil
}

func (c *Catalog) putImage(ctx context.Context, key string, u ImageUpload) error {
	f, err := u.Open()
	if err != nil {
		return apperrors.Internal(msgReadImageFailed, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return apperrors.Internal(msgReadImageFailed, err)
	}
	contentType := http.DetectContentType(head[:n])
	if !allowedImageTypes[contentType] {
		return apperrors.InvalidInput(fmt.Sprintf(msgUnsupportedImageFmt, u.Filename, contentType))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return apperrors.Internal(msgReadImageFailed, err)
	}

	return c.images.PutObject(ctx, key, f, contentType)
}

// discard runs on a fresh context so that a canceled request still cleans up.
func (c *Catalog) discard(keys []string, stored []bool) {
	var written []string
	for i, ok := range stored {
		if ok {
			written = append(written, keys[i])
		}
	}
	if len(written) == 0 {
		return
	}
	if err := c.images.DeleteObjects(context.Background(), written); err != nil {
		log.Printf("Failed to clean up %d uploaded images: %v", len(written), err)
	}
}
