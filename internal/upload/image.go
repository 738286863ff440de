// File: internal/upload/image.go
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotImage = errors.New("please upload an image file")
	ErrTooLarge = errors.New("file too large")
)

// Image 是已通過檢查、可以寫入 Store 的上傳檔案
type Image struct {
	File        multipart.File
	Size        int64
	ContentType string
	Ext         string
}

func (img *Image) Close() error { return img.File.Close() }

// FileName 產生 bootcamp 圖片的儲存名稱，例如 image_12.jpg
func FileName(bootcampID int, ext string) string {
	return fmt.Sprintf("image_%d%s", bootcampID, ext)
}

// Open 檢查大小並以檔案內容 (非副檔名或 header) 判斷是否為圖片
func Open(fh *multipart.FileHeader, maxSize int64) (*Image, error) {
	if fh.Size > maxSize {
		return nil, ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("detect mime: %w", err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		f.Close()
		return nil, ErrNotImage
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	// 副檔名一律取自偵測結果，不採用用戶端檔名
	return &Image{
		File:        f,
		Size:        fh.Size,
		ContentType: mtype.String(),
		Ext:         mtype.Extension(),
	}, nil
}
