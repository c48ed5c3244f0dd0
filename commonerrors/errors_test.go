package commonerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorKindMatching(t *testing.T) {
	err := fmt.Errorf("包装: %w", NewForbidden("您只能更新自己的演员信息"))

	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, "您只能更新自己的演员信息", PublicMessage(err))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:3306: connection refused")
	err := NewInternal(cause)

	assert.True(t, errors.Is(err, ErrSystemError))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, ErrSystemError.Error(), PublicMessage(err))
}

func TestStorageWrapsThirdParty(t *testing.T) {
	err := NewStorage("文件上传失败", errors.New("timeout"))

	assert.True(t, errors.Is(err, ErrThirdPartyServiceError))
	assert.True(t, errors.Is(err, ErrStorage))
}

func TestKindOfPlainErrors(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("repo: %w", ErrRepoNotFound)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, ErrSystemError.Error(), PublicMessage(errors.New("boom")))
}
