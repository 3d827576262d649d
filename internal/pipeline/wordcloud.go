package pipeline

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"ngo-campaign-pipeline/internal/model"
)

// WordcloudOptions controls keyword extraction and rendering. MinCollocations
// is the bigram count needed to keep a pair; a zero Seed picks a random layout.
type WordcloudOptions struct {
	Width           int
	Height          int
	MaxWords        int
	MinWordLength   int
	Collocations    bool
	MinCollocations int
	MinFontSize     float64
	MaxFontSize     float64
	Seed            int64
	Background      color.Color
}

// DefaultWordcloudOptions returns the dashboard's banner-sized cloud settings.
func DefaultWordcloudOptions() WordcloudOptions {
	return WordcloudOptions{
		Width:           1600,
		Height:          400,
		MaxWords:        200,
		MinWordLength:   3,
		Collocations:    true,
		MinCollocations: 2,
		MinFontSize:     10,
		MaxFontSize:     160,
		Background:      color.White,
	}
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_']*`)

var palette = []color.RGBA{
	{68, 1, 84, 255},
	{59, 82, 139, 255},
	{33, 145, 140, 255},
	{94, 201, 98, 255},
	{253, 231, 37, 255},
	{72, 40, 120, 255},
	{42, 120, 142, 255},
	{53, 183, 121, 255},
}

// GenerateWordcloud extracts the issue keywords of t and renders them to path.
func GenerateWordcloud(t *model.RecordTable, path string, opts WordcloudOptions) ([]model.KeywordWeight, error) {
	text := CleanIssueText(BuildIssueText(t))
	keywords := ExtractKeywords(text, opts)
	if err := RenderWordcloud(keywords, path, opts); err != nil {
		return nil, err
	}
	return keywords, nil
}

// ExtractKeywords counts words and collocations of text, strongest first.
// Weights are relative to the most frequent entry.
func ExtractKeywords(text string, opts WordcloudOptions) []model.KeywordWeight {
	stop := make(map[string]bool, len(PlaceholderWords))
	for _, w := range PlaceholderWords {
		stop[w] = true
	}

	var words []string
	surface := make(map[string]map[string]int)
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		tok = strings.TrimSuffix(strings.TrimSuffix(tok, "'s"), "'")
		key := strings.ToLower(tok)
		if stop[key] || len([]rune(key)) < opts.MinWordLength || isNumeric(key) {
			continue
		}
		words = append(words, key)
		if surface[key] == nil {
			surface[key] = make(map[string]int)
		}
		surface[key][tok]++
	}

	counts := make(map[string]int)
	for _, w := range words {
		counts[w]++
	}

	display := make(map[string]string, len(counts))
	for key := range counts {
		display[key] = dominantForm(surface[key])
	}

	if opts.Collocations && len(words) > 1 {
		bigrams := make(map[[2]string]int)
		for i := 0; i+1 < len(words); i++ {
			if words[i] == words[i+1] {
				continue
			}
			bigrams[[2]string{words[i], words[i+1]}]++
		}
		for pair, n := range bigrams {
			if n < opts.MinCollocations {
				continue
			}
			phrase := pair[0] + " " + pair[1]
			counts[phrase] += n
			display[phrase] = display[pair[0]] + " " + display[pair[1]]
			counts[pair[0]] -= n
			counts[pair[1]] -= n
		}
	}

	keywords := make([]model.KeywordWeight, 0, len(counts))
	for key, n := range counts {
		if n <= 0 {
			continue
		}
		keywords = append(keywords, model.KeywordWeight{Text: display[key], Count: n})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Text < keywords[j].Text
	})
	if opts.MaxWords > 0 && len(keywords) > opts.MaxWords {
		keywords = keywords[:opts.MaxWords]
	}
	if len(keywords) > 0 {
		top := float64(keywords[0].Count)
		for i := range keywords {
			keywords[i].Weight = math.Round(float64(keywords[i].Count)/top*1000) / 1000
		}
	}
	return keywords
}

// maxConsecutiveMisses stops the layout once the canvas is effectively full
const maxConsecutiveMisses = 10

type placedBox struct {
	x0, y0, x1, y1 float64
}

func (b placedBox) overlaps(o placedBox) bool {
	return b.x0 < o.x1 && o.x0 < b.x1 && b.y0 < o.y1 && o.y0 < b.y1
}

// RenderWordcloud lays the keywords out on a spiral and writes a PNG.
func RenderWordcloud(keywords []model.KeywordWeight, path string, opts WordcloudOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", opts.Width, opts.Height)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	dc := gg.NewContext(opts.Width, opts.Height)
	bg := opts.Background
	if bg == nil {
		bg = color.White
	}
	dc.SetColor(bg)
	dc.Clear()

	minSize := math.Max(opts.MinFontSize, 4)
	maxSize := math.Max(opts.MaxFontSize, minSize)

	faces := newFaceCache()
	w, h := float64(opts.Width), float64(opts.Height)
	var placed []placedBox
	misses := 0

	for _, kw := range keywords {
		if misses >= maxConsecutiveMisses {
			break
		}
		misses++
		size := minSize + (maxSize-minSize)*math.Sqrt(kw.Weight)
		for ; size >= minSize; size *= 0.75 {
			face, err := faces.get(size)
			if err != nil {
				return err
			}
			dc.SetFontFace(face)
			tw, th := dc.MeasureString(kw.Text)
			if tw >= w || th >= h {
				continue
			}

			box, ok := findSlot(rng, placed, tw, th, w, h)
			if !ok {
				continue
			}
			placed = append(placed, box)
			misses = 0
			dc.SetColor(palette[rng.Intn(len(palette))])
			dc.DrawStringAnchored(kw.Text, (box.x0+box.x1)/2, (box.y0+box.y1)/2, 0.5, 0.35)
			break
		}
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to write word cloud: %w", err)
	}
	return nil
}

// findSlot walks an archimedean spiral from a random start until the box fits
func findSlot(rng *rand.Rand, placed []placedBox, tw, th, w, h float64) (placedBox, bool) {
	cx := tw/2 + rng.Float64()*(w-tw)
	cy := th/2 + rng.Float64()*(h-th)
	aspect := h / w

	for step := 0; step < 1500; step++ {
		theta := float64(step) * 0.1
		r := 2 * theta
		x := cx + r*math.Cos(theta)
		y := cy + r*math.Sin(theta)*aspect
		box := placedBox{x0: x - tw/2, y0: y - th/2, x1: x + tw/2, y1: y + th/2}
		if box.x0 < 0 || box.y0 < 0 || box.x1 > w || box.y1 > h {
			continue
		}
		free := true
		for _, p := range placed {
			if box.overlaps(p) {
				free = false
				break
			}
		}
		if free {
			return box, true
		}
	}
	return placedBox{}, false
}

var (
	goRegular     *opentype.Font
	goRegularErr  error
	goRegularOnce sync.Once
)

type faceCache struct {
	faces map[int]font.Face
}

func newFaceCache() *faceCache {
	return &faceCache{faces: make(map[int]font.Face)}
}

func (c *faceCache) get(size float64) (font.Face, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = opentype.Parse(goregular.TTF)
	})
	if goRegularErr != nil {
		return nil, fmt.Errorf("failed to parse font: %w", goRegularErr)
	}

	key := int(size)
	if face, ok := c.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(goRegular, &opentype.FaceOptions{
		Size:    float64(key),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	c.faces[key] = face
	return face, nil
}

func dominantForm(forms map[string]int) string {
	best, bestN := "", -1
	for form, n := range forms {
		if n > bestN || (n == bestN && form < best) {
			best, bestN = form, n
		}
	}
	return best
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
