package location

import "fmt"

// SlidePos addresses a paragraph in a presentation. Shape 0 means the
// whole slide, Paragraph 0 the whole shape.
type SlidePos struct {
	Slide, Shape, Paragraph int
}

// Deck is the structural view of a presentation needed to resolve tokens.
type Deck interface {
	SlideCount() int
	ShapeCount(slide int) int
	ParagraphCount(slide, shape int) int
}

// EncodeSlide renders p as a presentation token.
func EncodeSlide(p SlidePos) string {
	return fmt.Sprintf("%d,%d,%d", p.Slide, p.Shape, p.Paragraph)
}

// ParseSlide parses a presentation token without resolving it.
func ParseSlide(token string) (SlidePos, error) {
	v, ok := ints(token, 3)
	if !ok || v[0] < 1 || (v[1] == 0 && v[2] != 0) {
		return SlidePos{}, malformed(token)
	}
	return SlidePos{Slide: v[0], Shape: v[1], Paragraph: v[2]}, nil
}

// DecodeSlide resolves token against deck.
func DecodeSlide(token string, deck Deck) (SlidePos, error) {
	p, err := ParseSlide(token)
	if err != nil {
		return SlidePos{}, err
	}
	if p.Slide > deck.SlideCount() {
		return SlidePos{}, notFound("slide %d", p.Slide)
	}
	if p.Shape > 0 && p.Shape > deck.ShapeCount(p.Slide) {
		return SlidePos{}, notFound("shape %d on slide %d", p.Shape, p.Slide)
	}
	if p.Paragraph > 0 && p.Paragraph > deck.ParagraphCount(p.Slide, p.Shape) {
		return SlidePos{}, notFound("paragraph %d of shape %d on slide %d", p.Paragraph, p.Shape, p.Slide)
	}
	return p, nil
}
