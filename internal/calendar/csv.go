package calendar

import (
	"encoding/csv"
	"io"
)

// csvHeader 는 내보내기 열 순서다. 외부 스프레드시트 가져오기와 맞물려 있으니 바꾸지 말 것.
var csvHeader = []string{"Day", "Date", "Post Type", "Caption", "Product", "Price", "Holiday Context", "Optimal Time"}

// WriteCSV 는 캘린더를 RFC 4180 CSV 로 직렬화한다. 포스트당 한 행.
func WriteCSV(w io.Writer, cal WeeklyCalendar) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, post := range cal.Posts {
		holidayName := ""
		if post.Holiday != nil {
			holidayName = post.Holiday.Name
		}
		record := []string{
			post.Day,
			post.Date,
			string(post.PostType),
			post.CaptionText,
			post.Product.Name,
			post.Product.Price,
			holidayName,
			OptimalTime(post.PostType),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
