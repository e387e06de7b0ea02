package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/xiaoyuanzhu-com/project-import/fs"
	"github.com/xiaoyuanzhu-com/project-import/importer"
	"github.com/xiaoyuanzhu-com/project-import/log"
	"github.com/xiaoyuanzhu-com/project-import/models"
)

// uploadedFile is one multipart file part of a folder import
type uploadedFile struct {
	rel    string
	header *multipart.FileHeader
}

func (f *uploadedFile) RelativePath() string { return f.rel }
func (f *uploadedFile) Name() string         { return path.Base(f.rel) }
func (f *uploadedFile) Open() (io.ReadCloser, error) {
	return f.header.Open()
}

type messagesResponse struct {
	Messages []models.Message `json:"messages"`
}

func (h *Handlers) limitBody(c *gin.Context) {
	if max := h.server.Config().MaxUploadBytes; max > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
	}
}

// ImportFolder handles POST /api/import/folder
// Multipart fields: name, files (repeated), paths (repeated, relative path of
// each file in the same order; multipart filenames lose their directories),
// binaryFiles (repeated).
func (h *Handlers) ImportFolder(c *gin.Context) {
	h.limitBody(c)

	form, err := c.MultipartForm()
	if err != nil {
		RespondErr(c, fmt.Errorf("%w: %w", models.ErrInvalidRequest, err))
		return
	}

	headers := form.File["files"]
	paths := form.Value["paths"]
	if len(paths) > 0 && len(paths) != len(headers) {
		RespondError(c, http.StatusBadRequest,
			fmt.Sprintf("got %d paths for %d files", len(paths), len(headers)))
		return
	}

	handles := make([]importer.FileHandle, 0, len(headers))
	for i, fh := range headers {
		rel := fh.Filename
		if len(paths) > 0 {
			rel = paths[i]
		}
		cleaned, err := fs.CleanRelativePath(rel)
		if err != nil {
			RespondError(c, http.StatusBadRequest, fmt.Sprintf("%v: %q", err, rel))
			return
		}
		handles = append(handles, &uploadedFile{rel: cleaned, header: fh})
	}

	messages, err := h.server.Importer().ImportFolder(c.Request.Context(), importer.FolderRequest{
		Name:        firstValue(form.Value["name"]),
		Handles:     handles,
		BinaryFiles: form.Value["binaryFiles"],
		Source:      models.SourceFolder,
	})
	if err != nil {
		log.Error().Err(err).Int("files", len(handles)).Msg("folder import failed")
		RespondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, messagesResponse{Messages: messages})
}

// ImportArchive handles POST /api/import/archive
// Multipart fields: archive (zip or tar, optionally compressed), name.
func (h *Handlers) ImportArchive(c *gin.Context) {
	h.limitBody(c)

	fh, err := c.FormFile("archive")
	if err != nil {
		RespondErr(c, fmt.Errorf("%w: missing archive file: %w", models.ErrInvalidRequest, err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		RespondErr(c, err)
		return
	}
	defer f.Close()

	src, err := importer.ArchiveHandles(c.Request.Context(), fh.Filename, f, importer.ArchiveLimits{
		MaxFileSize:  h.server.Config().MaxUploadBytes,
		MaxTotalSize: h.server.Config().MaxUploadBytes,
	})
	if err != nil {
		log.Error().Err(err).Str("archive", fh.Filename).Msg("archive unpack failed")
		RespondErr(c, err)
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = src.Name
	}

	messages, err := h.server.Importer().ImportFolder(c.Request.Context(), importer.FolderRequest{
		Name:        name,
		Handles:     src.Handles,
		BinaryFiles: src.BinaryFiles,
		Source:      models.SourceArchive,
	})
	if err != nil {
		log.Error().Err(err).Str("archive", fh.Filename).Msg("archive import failed")
		RespondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, messagesResponse{Messages: messages})
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
