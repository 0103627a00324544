package deepseek

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nutrition-chat/internal/infrastructure/config"
	"nutrition-chat/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// systemPrompt instructs the model to return structured JSON for
// Vietnamese meal descriptions.
const systemPrompt = `Bạn là trợ lý dinh dưỡng. Hãy trích xuất các món ăn/đồ uống từ câu tiếng Việt (có thể kèm tiếng Anh) và đề xuất thêm dữ liệu để lưu vào DB (alias, canonicalName...).
Luôn trả về đúng JSON với cấu trúc:
{
  "foods": [
    {
      "food_name": "tên món đã chuẩn hóa ngắn gọn (trùng canonicalName nếu có)",
      "canonicalName": "tên chuẩn để lưu DB; nếu không chắc, lặp lại food_name",
      "alias": "cách gọi trong câu gốc hoặc biến thể phổ biến nhất",
      "aliases": ["các cách viết khác nếu có"],
      "category": "rice|noodle|bread|drink|meat|fish|snack|fruit|veggie|custom",
      "quantity": { "amount": number, "unit": "đơn vị (dùng 'phần' nếu không rõ)", "confidence": 0.0-1.0 },
      "confidence": 0.0-1.0,
      "nutrition_hint": {
        "calories_per_100g": number,
        "carbs_per_100g": number,
        "sugar_per_100g": number,
        "protein_per_100g": number,
        "fat_per_100g": number,
        "fiber_per_100g": number
      }
    }
  ],
  "analysis": "tóm tắt ngắn gọn về bữa ăn (tiếng Việt)",
  "suggestions": ["mẹo cải thiện sức khỏe/dinh dưỡng ngắn gọn"]
}
Ghi nhớ:
- Luôn điền canonicalName và alias để hỗ trợ lưu DB (giữ lại dấu tiếng Việt nếu có).
- nutrition_hint là ước lượng theo 100g/100ml; nếu không biết có thể để 0.
- Chỉ trả về JSON, không thêm giải thích khác.`

// FlexFloat tolerates numbers the model may render as strings.
type FlexFloat float64

// UnmarshalJSON accepts both 2 and "2".
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = FlexFloat(v)
	return nil
}

// RawQuantity is the model's quantity object.
type RawQuantity struct {
	Amount     *FlexFloat `json:"amount"`
	Value      *FlexFloat `json:"value"`
	Unit       string     `json:"unit"`
	Confidence *FlexFloat `json:"confidence"`
}

// NutritionHint is a per-100g/ml nutrient estimate supplied by the model
// for foods missing from the local dictionary.
type NutritionHint struct {
	Calories FlexFloat `json:"calories_per_100g"`
	Carbs    FlexFloat `json:"carbs_per_100g"`
	Sugar    FlexFloat `json:"sugar_per_100g"`
	Protein  FlexFloat `json:"protein_per_100g"`
	Fat      FlexFloat `json:"fat_per_100g"`
	Fiber    FlexFloat `json:"fiber_per_100g"`
}

// RawFood is one food item as the model returns it. Field names vary
// between responses, so several spellings are accepted.
type RawFood struct {
	FoodName      string         `json:"food_name"`
	Name          string         `json:"name"`
	Item          string         `json:"item"`
	CanonicalName string         `json:"canonicalName"`
	Alias         string         `json:"alias"`
	Aliases       []string       `json:"aliases"`
	Category      string         `json:"category"`
	OriginalText  string         `json:"original_text"`
	Quantity      *RawQuantity   `json:"quantity"`
	QuantityInfo  *RawQuantity   `json:"quantity_info"`
	Confidence    *FlexFloat     `json:"confidence"`
	NutritionHint *NutritionHint `json:"nutrition_hint"`
}

// DisplayName returns the first non-empty name key.
func (r RawFood) DisplayName() string {
	for _, n := range []string{r.FoodName, r.Name, r.Item} {
		if s := strings.TrimSpace(n); s != "" {
			return s
		}
	}
	return ""
}

// QuantityData returns whichever quantity object was populated.
func (r RawFood) QuantityData() *RawQuantity {
	if r.Quantity != nil {
		return r.Quantity
	}
	return r.QuantityInfo
}

// Result is the normalized outcome of one analyze call.
type Result struct {
	Success     bool      `json:"success"`
	Foods       []RawFood `json:"foods"`
	Analysis    string    `json:"analysis"`
	Suggestions []string  `json:"suggestions"`
	RawContent  string    `json:"raw_content"`
	Error       string    `json:"error,omitempty"`
}

// parsedPayload is the JSON document the prompt asks for.
type parsedPayload struct {
	Foods       []RawFood `json:"foods"`
	Analysis    string    `json:"analysis"`
	Suggestions []string  `json:"suggestions"`
}

// Client calls the DeepSeek chat completion API.
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient builds a DeepSeek client from configuration.
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.DeepSeek.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.DeepSeek.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.DeepSeek.Timeout)

	return &Client{config: cfg, client: client}
}

// Available reports whether an API key is configured.
func (c *Client) Available() bool {
	return c.config.DeepSeek.Enabled()
}

// Analyze sends the raw utterance to the model and parses its JSON reply.
// Transport and parse failures come back inside Result, never as a panic;
// callers treat any unsuccessful Result as escalation failure.
func (c *Client) Analyze(ctx context.Context, userInput string) Result {
	if !c.Available() {
		return Result{Error: "DeepSeek API key not configured"}
	}

	req := map[string]interface{}{
		"model": c.config.DeepSeek.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userInput},
		},
		"temperature": c.config.DeepSeek.Temperature,
		"max_tokens":  c.config.DeepSeek.MaxTokens,
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	common.LogAICall(c.config.DeepSeek.Model, time.Since(start), err, common.GetRequestID(ctx))

	if err != nil {
		return Result{Error: fmt.Sprintf("deepseek request failed: %v", err)}
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("DeepSeek returned non-200",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", truncate(resp.String(), 300)))
		return Result{Error: fmt.Sprintf("deepseek API error: status %d", resp.StatusCode())}
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &completion); err != nil {
		return Result{Error: fmt.Sprintf("failed to parse deepseek response: %v", err)}
	}
	if len(completion.Choices) == 0 {
		return Result{Error: "no choices in deepseek response"}
	}

	content := completion.Choices[0].Message.Content

	var payload parsedPayload
	if err := common.ExtractJSONObject(content, &payload); err != nil {
		return Result{
			RawContent: content,
			Error:      "cannot parse deepseek JSON content",
		}
	}

	return Result{
		Success:     true,
		Foods:       payload.Foods,
		Analysis:    payload.Analysis,
		Suggestions: payload.Suggestions,
		RawContent:  content,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
