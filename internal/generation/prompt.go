package generation

import (
	"fmt"
	"net/url"
)

// SystemPrompt is the fixed persona for the text-generation call: an educator
// who distills complex knowledge points for middle-school students.
const SystemPrompt = `你是一位专业的中学教育专家，擅长将复杂的知识点简化为易于理解的内容。
你的任务是为中学生创建结构化的知识卡片，内容要简洁、准确、易懂。`

// userPromptTemplate embeds the topic, grade and subject, and ends with the
// output contract demanding a single JSON object. The model is asked for
// Markdown content, five tags, and a visual image prompt.
const userPromptTemplate = `请为以下主题创建一个知识卡片：

主题：%s
年级：%s
学科：%s

要求：
1. 生成一个简洁的标题（不超过20字）
2. 生成结构化的知识内容，包括：
   - 核心概念（简明定义）
   - 关键要点（3-5个要点，每个要点2-3句话）
   - 记忆技巧或应用示例（如适用）
3. 内容要适合%s学生的理解水平
4. 使用Markdown格式，清晰分段
5. 提供5个相关标签
6. 生成一个详细的图片描述，用于生成教育风格的插图（描述要具体、视觉化）

请以JSON格式返回，格式如下：
{
  "title": "标题",
  "content": "Markdown格式的内容",
  "imagePrompt": "图片生成提示词",
  "tags": ["标签1", "标签2", "标签3", "标签4", "标签5"]
}

注意：
- content要使用Markdown格式，包含标题、列表等
- imagePrompt要详细描述一个教育场景或图示，适合中学教材风格
- 回复必须是有效的JSON格式，不要添加其他文字`

// BuildUserPrompt renders the user-role prompt for the given topic request.
func BuildUserPrompt(req TopicRequest) string {
	return fmt.Sprintf(userPromptTemplate, req.Topic, req.Grade, req.Subject, req.Grade)
}

// OptimizeImagePrompt wraps a raw image prompt with the fixed style qualifier:
// clean textbook-illustration style, no embedded text or lettering.
func OptimizeImagePrompt(prompt string) string {
	return fmt.Sprintf(
		"Educational illustration, clean and simple style, suitable for middle school textbooks. %s. "+
			"Bright colors, clear composition, no text or words in the image. "+
			"High quality, professional educational graphics.",
		prompt,
	)
}

// PlaceholderImageURL returns the deterministic locator substituted when image
// generation fails. It encodes a human-readable "no image" marker and depends
// on no upstream service state.
func PlaceholderImageURL() string {
	return "https://placehold.co/1024x1024/8b5cf6/white?text=" + url.QueryEscape("暂无图片")
}
