package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // 注册 WebP 解码器

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/constants"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/enums"
)

// 各类媒体允许的 MIME 类型
var (
	allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/heic", "image/heif"}
	allowedVideoTypes = []string{"video/mp4", "video/quicktime", "video/x-msvideo", "video/3gpp", "video/x-matroska"}
)

// 嗅探结果不确定时按扩展名判断
var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".3gp":  "video/3gpp",
	".mkv":  "video/x-matroska",
}

const (
	msgImageTypeNotAllowed = "不支持的文件类型，仅支持JPG、PNG、GIF、WEBP和HEIC格式图片"
	msgVideoTypeNotAllowed = "不支持的文件类型，仅支持MP4、MOV、AVI、3GP和MKV格式视频"
	msgInvalidFile         = "无效的文件"
)

// Processed 一个处理完成、等待上传的文件。调用方负责调用 Cleanup。
type Processed struct {
	FileName    string
	ContentType string
	Size        int64
	Thumbnail   []byte

	data  []byte // 压缩后的图片
	path  string // 原样上传的临时文件
	temps []string
}

// Open 返回待上传内容
func (p *Processed) Open() (io.ReadCloser, error) {
	if p.data != nil {
		return io.NopCloser(bytes.NewReader(p.data)), nil
	}
	return os.Open(p.path)
}

// Cleanup 删除处理过程中产生的临时文件
func (p *Processed) Cleanup() {
	for _, f := range p.temps {
		_ = os.Remove(f)
	}
	p.temps = nil
}

// Processor 校验并处理上传的媒体文件：图片压缩并生成缩略图，视频截取单帧缩略图。
type Processor interface {
	Process(ctx context.Context, kind enums.MediaType, file dto.UploadFile) (*Processed, error)
}

type processor struct {
	tempDir      string
	ffmpegPath   string
	quality      int
	maxImageSize int64
	maxVideoSize int64
	logger       *core.ZapLogger
}

// NewProcessor 创建媒体处理器，未配置的限制使用默认值。
func NewProcessor(cfg config.MediaConfig, logger *core.ZapLogger) Processor {
	p := &processor{
		tempDir:      cfg.TempDir,
		ffmpegPath:   cfg.FFmpegPath,
		quality:      cfg.JPEGQuality,
		maxImageSize: int64(cfg.MaxImageSizeMB) * 1024 * 1024,
		maxVideoSize: int64(cfg.MaxVideoSizeMB) * 1024 * 1024,
		logger:       logger,
	}
	if p.quality <= 0 || p.quality > 100 {
		p.quality = constants.DefaultJPEGQuality
	}
	if p.maxImageSize <= 0 {
		p.maxImageSize = constants.MaxImageSize
	}
	if p.maxVideoSize <= 0 {
		p.maxVideoSize = constants.MaxVideoSize
	}
	if p.ffmpegPath == "" {
		p.ffmpegPath = "ffmpeg"
	}
	return p
}

func (p *processor) maxSize(kind enums.MediaType) int64 {
	if kind == enums.MediaVideo {
		return p.maxVideoSize
	}
	return p.maxImageSize
}

func (p *processor) Process(ctx context.Context, kind enums.MediaType, file dto.UploadFile) (*Processed, error) {
	const operation = "MediaProcessor.Process"

	if file.FileName == "" || file.Open == nil {
		return nil, commonerrors.NewValidation(msgInvalidFile)
	}
	limit := p.maxSize(kind)
	if file.Size > limit {
		return nil, commonerrors.NewValidation(fmt.Sprintf("文件过大，最大允许上传%dMB", limit/1024/1024))
	}

	out := &Processed{}
	ok := false
	defer func() {
		if !ok {
			out.Cleanup()
		}
	}()

	src, written, err := p.saveTemp(file, limit, out)
	if err != nil {
		return nil, err
	}

	contentType, err := detectContentType(src, file.FileName, kind)
	if err != nil {
		return nil, err
	}

	switch {
	case kind == enums.MediaVideo:
		thumb, err := p.videoThumbnail(ctx, src, out)
		if err != nil {
			p.logger.Warn("截取视频缩略图失败，使用占位图",
				zap.String("operation", operation),
				zap.String("fileName", file.FileName),
				zap.Error(err),
			)
			thumb, err = placeholder(constants.VideoThumbnailWidth, constants.VideoThumbnailHeight, p.quality)
			if err != nil {
				return nil, commonerrors.NewInternal(err)
			}
		}
		out.path = src
		out.Size = written
		out.ContentType = contentType
		out.FileName = newObjectFileName(file.FileName)
		out.Thumbnail = thumb

	case contentType == "image/heic" || contentType == "image/heif":
		// HEIC 无法解码，原样保存并使用占位缩略图
		thumb, err := placeholder(constants.ThumbnailMaxWidth, constants.ThumbnailMaxHeight, p.quality)
		if err != nil {
			return nil, commonerrors.NewInternal(err)
		}
		out.path = src
		out.Size = written
		out.ContentType = contentType
		out.FileName = newObjectFileName(file.FileName)
		out.Thumbnail = thumb

	default:
		data, thumb, err := p.compressImage(src)
		if err != nil {
			p.logger.Info("图片解码失败", zap.String("operation", operation), zap.String("fileName", file.FileName), zap.Error(err))
			return nil, commonerrors.NewValidation("无法解析图片内容")
		}
		out.data = data
		out.Size = int64(len(data))
		out.ContentType = "image/jpeg"
		out.FileName = withExt(newObjectFileName(file.FileName), ".jpg")
		out.Thumbnail = thumb
	}

	ok = true
	return out, nil
}

// saveTemp 把上传内容写入临时文件，实际字节数超过限制时拒绝
func (p *processor) saveTemp(file dto.UploadFile, limit int64, out *Processed) (string, int64, error) {
	rc, err := file.Open()
	if err != nil {
		return "", 0, commonerrors.NewValidation(msgInvalidFile)
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(p.tempDir, "upload-*"+strings.ToLower(filepath.Ext(file.FileName)))
	if err != nil {
		return "", 0, commonerrors.NewInternal(fmt.Errorf("创建临时文件失败: %w", err))
	}
	out.temps = append(out.temps, tmp.Name())

	written, err := io.Copy(tmp, io.LimitReader(rc, limit+1))
	closeErr := tmp.Close()
	if err != nil {
		return "", 0, commonerrors.NewInternal(fmt.Errorf("写入临时文件失败: %w", err))
	}
	if closeErr != nil {
		return "", 0, commonerrors.NewInternal(closeErr)
	}
	if written > limit {
		return "", 0, commonerrors.NewValidation(fmt.Sprintf("文件过大，最大允许上传%dMB", limit/1024/1024))
	}
	if written == 0 {
		return "", 0, commonerrors.NewValidation(msgInvalidFile)
	}
	return tmp.Name(), written, nil
}

// detectContentType 先按内容嗅探，嗅探不确定时按扩展名判断
func detectContentType(path, fileName string, kind enums.MediaType) (string, error) {
	allowed, msg := allowedImageTypes, msgImageTypeNotAllowed
	if kind == enums.MediaVideo {
		allowed, msg = allowedVideoTypes, msgVideoTypeNotAllowed
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", commonerrors.NewInternal(err)
	}
	for _, a := range allowed {
		if mt.Is(a) {
			return a, nil
		}
	}

	if inconclusive(mt) {
		byExt := extensionTypes[strings.ToLower(filepath.Ext(fileName))]
		for _, a := range allowed {
			if byExt == a {
				return a, nil
			}
		}
	}
	return "", commonerrors.NewValidation(msg)
}

func inconclusive(mt *mimetype.MIME) bool {
	return mt.Is("application/octet-stream")
}

func (p *processor) compressImage(path string) ([]byte, []byte, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, err
	}

	// 透明通道铺到白色背景上
	bounds := img.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, nil, err
	}

	thumb := imaging.Fit(flat, constants.ThumbnailMaxWidth, constants.ThumbnailMaxHeight, imaging.Lanczos)
	var thumbBuf bytes.Buffer
	if err := imaging.Encode(&thumbBuf, thumb, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), thumbBuf.Bytes(), nil
}

// videoThumbnail 用 ffmpeg 截取固定时间点的一帧
func (p *processor) videoThumbnail(ctx context.Context, src string, out *Processed) ([]byte, error) {
	bin, err := exec.LookPath(p.ffmpegPath)
	if err != nil {
		return nil, fmt.Errorf("未找到 ffmpeg: %w", err)
	}

	target := src + "_thumb.jpg"
	out.temps = append(out.temps, target)

	cmd := exec.CommandContext(ctx, bin,
		"-y",
		"-ss", constants.VideoThumbnailOffset,
		"-i", src,
		"-frames:v", "1",
		"-s", fmt.Sprintf("%dx%d", constants.VideoThumbnailWidth, constants.VideoThumbnailHeight),
		"-f", "image2",
		target,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg 执行失败: %w: %s", err, lastLine(output))
	}
	return os.ReadFile(target)
}

// placeholder 生成纯黑占位缩略图
func placeholder(width, height, quality int) ([]byte, error) {
	img := imaging.New(width, height, color.Black)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return lines[len(lines)-1]
}

func withExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
