package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	App struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"`
	} `yaml:"app"`

	Database struct {
		Postgres struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			DBName   string `yaml:"dbname"`
			SSLMode  string `yaml:"sslmode"`
		} `yaml:"postgres"`
	} `yaml:"database"`

	NATS struct {
		URL      string `yaml:"url"`
		ClientID string `yaml:"client_id"`
	} `yaml:"nats"`

	API struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"api"`

	LLM struct {
		APIURL    string        `yaml:"api_url"`
		APIKey    string        `yaml:"api_key"`
		ModelName string        `yaml:"model_name"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"llm"`

	Search struct {
		APIURL  string        `yaml:"api_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"search"`

	Notify struct {
		WebhookURL string `yaml:"webhook_url"`
		TestMode   bool   `yaml:"test_mode"` // 测试模式只打日志不发送
	} `yaml:"notify"`

	// Evaluation 评估策略配置
	// 审批阈值是人工调参的经验值（目标通过率10-20%），不是推导常量
	Evaluation struct {
		Weights struct {
			WorkerImpact      float64 `yaml:"worker_impact"`
			Timeliness        float64 `yaml:"timeliness"`
			Verifiability     float64 `yaml:"verifiability"`
			RegionalRelevance float64 `yaml:"regional_relevance"`
			Conflict          float64 `yaml:"conflict"`
			Novelty           float64 `yaml:"novelty"`
		} `yaml:"weights"`
		MinApprovalScore float64  `yaml:"min_approval_score"`
		MinHoldScore     float64  `yaml:"min_hold_score"`
		NoveltyWindow    int      `yaml:"novelty_window_days"`
		TargetRegions    []string `yaml:"target_regions"`
		BatchLimit       int      `yaml:"batch_limit"`
	} `yaml:"evaluation"`

	// Quality 质量门禁配置
	Quality struct {
		ReadingLevelMin  float64 `yaml:"reading_level_min"`
		ReadingLevelMax  float64 `yaml:"reading_level_max"`
		SelfAuditPass    float64 `yaml:"self_audit_pass_fraction"`
		MinAttribution   float64 `yaml:"min_attribution_coverage"`
		MaxRegenAttempts int     `yaml:"max_regen_attempts"`
	} `yaml:"quality"`

	// Editorial 编辑流程配置
	Editorial struct {
		MaxRevisions    int            `yaml:"max_revisions"`
		DefaultSLAHours int            `yaml:"default_sla_hours"`
		CategorySLA     map[string]int `yaml:"category_sla_hours"`
		Editors         []string       `yaml:"editors"`
	} `yaml:"editorial"`

	// Discovery 线索采集配置
	Discovery struct {
		FeedURLs        []string `yaml:"feed_urls"`
		IntervalMinutes int      `yaml:"interval_minutes"`
	} `yaml:"discovery"`

	// Monitoring 发布后监控配置
	Monitoring struct {
		WindowDays  int          `yaml:"window_days"`
		BatchLimit  int          `yaml:"batch_limit"`
		MentionAPIs []MentionAPI `yaml:"mention_apis"`
	} `yaml:"monitoring"`
}

// MentionAPI 单个社交平台提及接口的接入配置
type MentionAPI struct {
	Platform string `yaml:"platform"`
	APIURL   string `yaml:"api_url"`
	APIKey   string `yaml:"api_key"`
}

// LoadConfig 从文件加载配置
func LoadConfig(path string) (*Config, error) {
	// 读取配置文件
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析YAML
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 填充默认策略值
	applyDefaults(&config)

	// 环境变量覆盖
	overrideFromEnv(&config)

	return &config, nil
}

// applyDefaults 填充未配置的策略默认值
func applyDefaults(config *Config) {
	w := &config.Evaluation.Weights
	if w.WorkerImpact == 0 && w.Timeliness == 0 && w.Verifiability == 0 &&
		w.RegionalRelevance == 0 && w.Conflict == 0 && w.Novelty == 0 {
		w.WorkerImpact = 0.30
		w.Timeliness = 0.20
		w.Verifiability = 0.20
		w.RegionalRelevance = 0.15
		w.Conflict = 0.10
		w.Novelty = 0.05
	}
	if config.Evaluation.MinApprovalScore == 0 {
		config.Evaluation.MinApprovalScore = 65.0
	}
	if config.Evaluation.MinHoldScore == 0 {
		config.Evaluation.MinHoldScore = 30.0
	}
	if config.Evaluation.NoveltyWindow == 0 {
		config.Evaluation.NoveltyWindow = 7
	}
	if config.Evaluation.BatchLimit == 0 {
		config.Evaluation.BatchLimit = 50
	}
	if config.Quality.ReadingLevelMin == 0 {
		config.Quality.ReadingLevelMin = 7.5
	}
	if config.Quality.ReadingLevelMax == 0 {
		config.Quality.ReadingLevelMax = 8.5
	}
	if config.Quality.SelfAuditPass == 0 {
		config.Quality.SelfAuditPass = 0.8
	}
	if config.Quality.MinAttribution == 0 {
		config.Quality.MinAttribution = 0.8
	}
	if config.Quality.MaxRegenAttempts == 0 {
		config.Quality.MaxRegenAttempts = 3
	}
	if config.Editorial.MaxRevisions == 0 {
		config.Editorial.MaxRevisions = 2
	}
	if config.Editorial.DefaultSLAHours == 0 {
		config.Editorial.DefaultSLAHours = 48
	}
	if config.Editorial.CategorySLA == nil {
		config.Editorial.CategorySLA = map[string]int{
			"labor":       24,
			"politics":    24,
			"housing":     48,
			"environment": 48,
		}
	}
	if config.Discovery.IntervalMinutes == 0 {
		config.Discovery.IntervalMinutes = 15
	}
	if config.Monitoring.WindowDays == 0 {
		config.Monitoring.WindowDays = 7
	}
	if config.Monitoring.BatchLimit == 0 {
		config.Monitoring.BatchLimit = 20
	}
}

// overrideFromEnv 使用环境变量覆盖配置
func overrideFromEnv(config *Config) {
	// 应用名称
	if env := os.Getenv("APP_NAME"); env != "" {
		config.App.Name = env
	}

	// 环境
	if env := os.Getenv("APP_ENV"); env != "" {
		config.App.Env = env
	}

	// 数据库配置
	if env := os.Getenv("DB_HOST"); env != "" {
		config.Database.Postgres.Host = env
	}
	if env := os.Getenv("DB_PORT"); env != "" {
		var port int
		fmt.Sscanf(env, "%d", &port)
		if port > 0 {
			config.Database.Postgres.Port = port
		}
	}
	if env := os.Getenv("DB_USER"); env != "" {
		config.Database.Postgres.User = env
	}
	if env := os.Getenv("DB_PASSWORD"); env != "" {
		config.Database.Postgres.Password = env
	}
	if env := os.Getenv("DB_NAME"); env != "" {
		config.Database.Postgres.DBName = env
	}

	// NATS配置
	if env := os.Getenv("NATS_URL"); env != "" {
		config.NATS.URL = env
	}
	if env := os.Getenv("NATS_CLIENT_ID"); env != "" {
		config.NATS.ClientID = env
	}

	// LLM配置
	if env := os.Getenv("LLM_API_URL"); env != "" {
		config.LLM.APIURL = env
	}
	if env := os.Getenv("LLM_API_KEY"); env != "" {
		config.LLM.APIKey = env
	}
	if env := os.Getenv("LLM_MODEL_NAME"); env != "" {
		config.LLM.ModelName = env
	}

	// 搜索服务配置
	if env := os.Getenv("SEARCH_API_URL"); env != "" {
		config.Search.APIURL = env
	}
	if env := os.Getenv("SEARCH_API_KEY"); env != "" {
		config.Search.APIKey = env
	}

	// 通知配置
	if env := os.Getenv("NOTIFY_WEBHOOK_URL"); env != "" {
		config.Notify.WebhookURL = env
	}

	// API配置
	if env := os.Getenv("API_PORT"); env != "" {
		config.API.Port = env
	}
}

// GetDefaultConfigPath 获取默认配置文件路径
func GetDefaultConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev" // 默认开发环境
	}

	return fmt.Sprintf("configs/%s/app.yaml", env)
}
