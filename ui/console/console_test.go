package console

import (
	"bytes"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestView_WritesChanges(t *testing.T) {
	var buf bytes.Buffer
	v := New(&buf)

	v.SetLoading(true)
	v.SetLoading(true)
	v.SetError("HTTP error 500")
	v.SetError("HTTP error 500")
	v.SetAction("Submit", true)
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	v.ShowImage(img)
	v.ShowImage(img)
	v.SetDetections([]string{"text 91% [1,2,3,4]"})
	v.SetDetections([]string{"text 91% [1,2,3,4]"})
	v.SetStateLabel("State: resulted")

	assert.Equal(t, "predicting...\nerror: HTTP error 500\nimage: 4x3\n  text 91% [1,2,3,4]\nState: resulted\n", buf.String())
	assert.Equal(t, "HTTP error 500", v.Err())
	assert.Equal(t, "Submit", v.ActionLabel())

	v.SetError("")
	assert.Empty(t, v.Err())
}

func TestView_RequestLine(t *testing.T) {
	var buf bytes.Buffer
	v := New(&buf)
	v.SetRequest(200*time.Millisecond, 0, 0)
	assert.Empty(t, buf.String())
	v.SetRequest(0, 1500*time.Millisecond, 1)
	assert.Equal(t, "request took 1.5s\n", buf.String())
}
