package validators

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockroomhq/stockroom-backend/internal/images"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
)

const imageFormField = "image"

// ProductForm is the decoded create/update payload. Every field is optional
// at this layer; the change engine enforces per-operation requirements.
type ProductForm struct {
	Name     *string
	Price    *decimal.Decimal
	Quantity *int
	Image    *images.Upload
}

// DecodeProductForm accepts either a JSON body or a multipart form with an
// optional image file. Multipart uploads are spooled to a temp file the
// image resolver is responsible for removing.
func DecodeProductForm(r *http.Request, maxUploadMB int) (*ProductForm, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return decodeMultipartForm(r, maxUploadMB)
	}
	return decodeJSONForm(r)
}

func decodeJSONForm(r *http.Request) (*ProductForm, error) {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()

	var body struct {
		Name     *string  `json:"name"`
		Price    *float64 `json:"price"`
		Quantity *int     `json:"quantity"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}

	form := &ProductForm{Name: body.Name, Quantity: body.Quantity}
	if body.Price != nil {
		price := decimal.NewFromFloat(*body.Price)
		form.Price = &price
	}
	return form, nil
}

func decodeMultipartForm(r *http.Request, maxUploadMB int) (*ProductForm, error) {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	if err := r.ParseMultipartForm(int64(maxUploadMB) << 20); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	form := &ProductForm{}

	if v, ok := formValue(r, "name"); ok {
		name := v
		form.Name = &name
	}
	if v, ok := formValue(r, "price"); ok {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a number")
		}
		form.Price = &price
	}
	if v, ok := formValue(r, "quantity"); ok {
		quantity, err := strconv.Atoi(v)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be an integer")
		}
		form.Quantity = &quantity
	}

	file, header, err := r.FormFile(imageFormField)
	if err == nil {
		upload, spoolErr := spoolUpload(file, header)
		if spoolErr != nil {
			return nil, spoolErr
		}
		form.Image = upload
	} else if err != http.ErrMissingFile {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image upload")
	}

	return form, nil
}

func formValue(r *http.Request, key string) (string, bool) {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

func spoolUpload(file multipart.File, header *multipart.FileHeader) (*images.Upload, error) {
	defer func() { _ = file.Close() }()

	tmp, err := os.CreateTemp("", "stockroom-upload-*")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "spooling upload")
	}

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "spooling upload")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("closing spool file %s", tmp.Name()))
	}

	return &images.Upload{
		TempPath:    tmp.Name(),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
