package pipeline

import (
	"fmt"
	"strings"
	"unicode"

	"nutrition-chat/internal/core/nutrition"
)

const noFoodsMessage = "🤔 Tôi không nhận diện được món ăn nào. Bạn có thể thử nhập:\n" +
	"- '2 bát cơm với thịt kho'\n" +
	"- '1 tô phở bò'\n" +
	"- '200g cá chiên và canh rau'"

// Narrative renders a Vietnamese chat reply for one processed utterance.
func Narrative(r *nutrition.ProcessResult) string {
	if len(r.Foods) == 0 {
		msg := noFoodsMessage
		if r.Escalation.Used {
			errText := r.Escalation.Error
			if errText == "" {
				errText = "DeepSeek không trả về kết quả"
			}
			msg += fmt.Sprintf("\n(Đã thử DeepSeek: %s)", errText)
		} else if r.Escalation.Reason == nutrition.ReasonNotConfigured {
			msg += "\n(DeepSeek chưa được cấu hình. Thêm DEEPSEEK_API_KEY để bật tự động fallback.)"
		}
		return msg
	}

	var lines []string

	if r.IsUpdate {
		lines = append(lines, "🔄 **ĐÃ CẬP NHẬT SỐ LƯỢNG**")
	} else {
		lines = append(lines, "🍽️ **PHÂN TÍCH BỮA ĂN**")
	}

	if r.Source == nutrition.SourceDeepSeek {
		lines = append(lines, "🤖 Đã dùng DeepSeek do độ tin cậy thấp/không nhận diện được món.")
		if r.Escalation.Analysis != "" {
			lines = append(lines, r.Escalation.Analysis)
		}
	}

	lines = append(lines, "", "**Các món đã nhận diện:**")
	for i, food := range r.Foods {
		q := food.Quantity
		line := fmt.Sprintf("%d. %s: ", i+1, capitalize(food.CanonicalName))
		if q.Type == nutrition.QuantityExact {
			line += fmt.Sprintf("%.0f%s", q.Amount, q.Unit)
		} else {
			line += fmt.Sprintf("%s %s (≈%.0fg)", formatAmount(q.Amount), q.Unit, food.EstimatedGrams)
		}
		lines = append(lines, line)
	}

	meal := r.MealSummary.Totals
	lines = append(lines, "",
		"📊 **DINH DƯỠNG BỮA NÀY:**",
		fmt.Sprintf("• Calories: %.0f kcal", meal.Calories),
		fmt.Sprintf("• Tinh bột: %.1fg", meal.Carbs),
		fmt.Sprintf("• Đường: %.1fg", meal.Sugar),
		fmt.Sprintf("• Protein: %.1fg", meal.Protein),
		fmt.Sprintf("• Chất béo: %.1fg", meal.Fat),
	)

	mem := r.MemorySummary.TotalNutrition
	lines = append(lines, "",
		"📈 **TỔNG 3 BỮA GẦN NHẤT:**",
		fmt.Sprintf("• Calories: %.0f kcal", mem.Calories),
		fmt.Sprintf("• Protein: %.1fg", mem.Protein),
	)

	lines = append(lines, "",
		fmt.Sprintf("📅 **TỔNG HÔM NAY:** %.0f kcal", r.DailyTotals.Calories))

	if len(r.Escalation.Suggestions) > 0 {
		lines = append(lines, "",
			fmt.Sprintf("💡 Gợi ý từ DeepSeek: %s", r.Escalation.Suggestions[0]))
	}

	lines = append(lines, "",
		"💡 *Ghi chú: Kết quả có sai số nhất định.*",
		"*Để chính xác hơn, hãy nhập định lượng cụ thể (ví dụ: 150g thịt).*",
	)

	return strings.Join(lines, "\n")
}

// formatAmount drops a trailing .0 so whole servings read naturally.
func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
