package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifier(t *testing.T) {
	v := NewVerifier(" s3cret ")
	assert.True(t, v.Enabled())
	assert.True(t, v.Verify("s3cret"))
	assert.True(t, v.Verify("s3cret\n"))
	assert.False(t, v.Verify("s3cre"))
	assert.False(t, v.Verify(""))
}

func TestVerifier_Disabled(t *testing.T) {
	v := NewVerifier("")
	assert.False(t, v.Enabled())
	assert.True(t, v.Verify(""))
	assert.True(t, v.Verify("anything"))
}
