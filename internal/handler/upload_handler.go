package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studioadmin/internal/upload"
)

// openUploadedImage 读取表单中的 image 文件；未选择文件时返回 nil。
func openUploadedImage(c *gin.Context) (*upload.File, func(), error) {
	noop := func() {}

	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, errInvalidPayload
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}

	return &upload.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, func() { file.Close() }, nil
}
