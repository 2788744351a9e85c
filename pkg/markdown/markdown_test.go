package markdown

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN"
    "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
 <head><title></title></head>
 <body>
  <div class='ocr_page' id='page_1' title='bbox 0 0 800 600'>
   <div class='ocr_carea' id='block_1_1'>
    <p class='ocr_par' id='par_1_1' lang='eng'>
     <span class='ocr_line' id='line_1_1'>
      <span class='ocrx_word' id='word_1_1'>Quarterly</span>
      <span class='ocrx_word' id='word_1_2'>Report</span>
     </span>
     <span class='ocr_line' id='line_1_2'>
      <span class='ocrx_word'>Q&amp;A</span> <span class='ocrx_word'>section</span>
     </span>
    </p>
    <p class='ocr_par' id='par_1_2'>
     <span class='ocr_header'><span class='ocrx_word'>#</span><span class='ocrx_word'>1</span></span>
     <span class='ocr_line'><span class='ocrx_word'>2.</span><span class='ocrx_word'>Totals</span></span>
    </p>
    <p class='ocr_par' id='par_1_3'><span class='ocr_line'>   </span></p>
   </div>
  </div>
 </body>
</html>`

func TestFromHOCR(t *testing.T) {
	got, err := FromHOCR(strings.NewReader(sampleHOCR))
	require.NoError(t, err)

	want := "Quarterly Report\nQ&A section\n\n\\# 1\n2\\. Totals\n"
	assert.Equal(t, want, got)
}

func TestFromHOCRWithoutParagraphs(t *testing.T) {
	src := `<div class="ocr_page"><span class="ocr_line">only  line</span></div>`
	got, err := FromHOCR(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "only line\n", got)

	empty, err := FromHOCR(strings.NewReader(`<div class="ocr_page"></div>`))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

const sampleMarkdown = `# Title

![](images/a.jpg)

Some text ![fig](images/b.jpg "Figure 2") and again ![](images/a.jpg).

<table><tr><td><img src="images/c.jpg"/></td></tr></table>

[not an image](images/d.jpg)
`

func TestImageReferences(t *testing.T) {
	got := ImageReferences([]byte(sampleMarkdown))
	want := []string{"images/a.jpg", "images/b.jpg", "images/c.jpg"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ImageReferences mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, ImageReferences([]byte("plain text")))
}

func TestRewriteImageLinks(t *testing.T) {
	mapping := map[string]string{
		"images/a.jpg": "images/1111.jpg",
		"images/b.jpg": "images/2222.jpg",
		"images/c.jpg": "images/3333.jpg",
		"images/d.jpg": "images/4444.jpg",
	}

	got := string(RewriteImageLinks([]byte(sampleMarkdown), mapping))

	assert.Contains(t, got, "![](images/1111.jpg)\n")
	assert.Contains(t, got, "again ![](images/1111.jpg).")
	assert.Contains(t, got, `![fig](images/2222.jpg "Figure 2")`)
	assert.Contains(t, got, `<img src="images/3333.jpg"/>`)
	assert.Contains(t, got, "[not an image](images/d.jpg)", "plain links are not rewritten")
	assert.NotContains(t, got, "images/a.jpg")
}

func TestRewriteImageLinksMatchesWholeDestination(t *testing.T) {
	src := []byte("![](b.png) ![](x/b.png)")
	got := RewriteImageLinks(src, map[string]string{
		"b.png":   "images/short.png",
		"x/b.png": "images/long.png",
	})
	assert.Equal(t, "![](images/short.png) ![](images/long.png)", string(got))
}

func TestRewriteImageLinksNoMapping(t *testing.T) {
	src := []byte("![](a.png)")
	assert.Equal(t, src, RewriteImageLinks(src, nil))
}
