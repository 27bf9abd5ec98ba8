package objstore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrNotDataURL 字符串不是 base64 data URL
var ErrNotDataURL = errors.New("not a base64 data URL")

// DataURL 解码后的 data URL
type DataURL struct {
	ContentType string
	Data        []byte
}

// IsDataURL 是否以 data: 开头
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseDataURL 解析 "data:<mime>;base64,<payload>"
//
// 只接受 base64 编码；缺少 mime 时按 RFC 2397 视为 text/plain。
func ParseDataURL(s string) (*DataURL, error) {
	if !IsDataURL(s) {
		return nil, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload", ErrNotDataURL)
	}

	params := strings.Split(meta, ";")
	if params[len(params)-1] != "base64" {
		return nil, fmt.Errorf("%w: only base64 encoding is supported", ErrNotDataURL)
	}
	contentType := params[0]
	if contentType == "" || contentType == "base64" {
		contentType = "text/plain"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// 部分浏览器输出不带填充
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotDataURL, err)
		}
	}
	return &DataURL{ContentType: strings.ToLower(contentType), Data: data}, nil
}

var extensions = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/jpg":     "jpg",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
	"image/bmp":     "bmp",
}

// Extension mime 对应的文件扩展名，未知类型返回 bin
func Extension(contentType string) string {
	if ext, ok := extensions[contentType]; ok {
		return ext
	}
	return "bin"
}

// StudentPhotoKey 学生照片对象键：students/<id>/<ulid>.<ext>
//
// ULID 按时间排序，同一学生的多次上传按键名即可找到最新一张。
func StudentPhotoKey(studentID, contentType string, now time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy())
	return StudentPhotoPrefix(studentID) + id.String() + "." + Extension(contentType)
}

// StudentPhotoPrefix 学生照片对象键前缀
func StudentPhotoPrefix(studentID string) string {
	return "students/" + studentID + "/"
}
