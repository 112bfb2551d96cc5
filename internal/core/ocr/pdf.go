package ocr

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// rowTolerance 同一行文字的 Y 座標容許誤差
const rowTolerance = 2.0

// PDFEngine 讀取電子收據 PDF 的文字層，不需 OCR
type PDFEngine struct{}

// NewPDFEngine 創建 PDF 文字擷取引擎
func NewPDFEngine() *PDFEngine {
	return &PDFEngine{}
}

// Name 引擎名稱
func (e *PDFEngine) Name() string {
	return "pdf"
}

// Recognize 將每頁文字依座標組回行，以換行分隔輸出
func (e *PDFEngine) Recognize(ctx context.Context, path, _ string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		lines = append(lines, groupRows(p.Content().Text)...)
	}

	if len(lines) == 0 {
		return "", fmt.Errorf("pdf has no text layer")
	}
	return strings.Join(lines, "\n"), nil
}

type pdfRow struct {
	y     float64
	texts []pdf.Text
}

// groupRows 依 Y 座標由上而下分組，同行依 X 座標排序後串接
func groupRows(texts []pdf.Text) []string {
	var rows []*pdfRow
	for _, t := range texts {
		var row *pdfRow
		for _, r := range rows {
			if abs(r.y-t.Y) <= rowTolerance {
				row = r
				break
			}
		}
		if row == nil {
			row = &pdfRow{y: t.Y}
			rows = append(rows, row)
		}
		row.texts = append(row.texts, t)
	}

	// PDF 座標原點在左下，Y 越大越上方
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row.texts, func(i, j int) bool { return row.texts[i].X < row.texts[j].X })

		var sb strings.Builder
		var lastEnd float64
		for i, t := range row.texts {
			// 字元間距明顯時補空白
			if i > 0 && t.X-lastEnd > t.FontSize*0.2 {
				sb.WriteByte(' ')
			}
			sb.WriteString(t.S)
			lastEnd = t.X + t.W
		}
		if line := strings.TrimSpace(sb.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
