package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"hotspot"
	"hotspot/block"
	"hotspot/config"
	"hotspot/floorplan"
)

var rootCmd = &cobra.Command{
	Use:   "hotspot",
	Short: "Build thermal RC circuits from chip floorplans.",
	Long: `hotspot builds the equivalent thermal RC circuit of a chip floorplan ` +
		`with the block model, and computes steady-state or transient temperatures ` +
		`from power traces.`,
	SilenceUsage: true,
}

// Execute 注册子命令并执行
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("floorplan", "f", "", "floorplan file (.flp)")
	flags.StringP("config", "c", "", "configuration file, defaults are used when empty")
	flags.StringArrayP("set", "s", nil, "override a configuration entry, name=value")
	flags.String("env", ".env", "environment file with HOTSPOT_<NAME> overrides")
	rootCmd.MarkPersistentFlagRequired("floorplan")
}

// session 命令共享的模型与配置
type session struct {
	cfg     *config.Config
	flp     *floorplan.Floorplan
	model   *block.Model
	circuit *hotspot.Circuit
}

// configure 依次叠加配置文件、环境变量与命令行配置项
func configure(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", hotspot.ErrConfigNotFound, path)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	env, _ := cmd.Flags().GetString("env")
	if env != "" {
		if err := godotenv.Load(env); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", env, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	sets, _ := cmd.Flags().GetStringArray("set")
	pairs := make([]config.Pair, 0, len(sets))
	for _, s := range sets {
		p, err := config.ParsePair(s)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	unused, err := cfg.Apply(pairs)
	if err != nil {
		return nil, err
	}
	for _, name := range unused {
		log.Printf("unknown configuration entry %q ignored", name)
	}
	return cfg, cfg.Validate()
}

// open 读取布局与配置并构建热电路
func open(cmd *cobra.Command) (*session, error) {
	cfg, err := configure(cmd)
	if err != nil {
		return nil, err
	}
	path, _ := cmd.Flags().GetString("floorplan")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", hotspot.ErrFloorplanNotFound, path)
	}
	flp, err := floorplan.Load(path)
	if err != nil {
		return nil, err
	}
	model, err := hotspot.Model(flp, cfg)
	if err != nil {
		return nil, err
	}
	c, err := hotspot.FromModel(model)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, flp: flp, model: model, circuit: c}, nil
}

// create 打开输出文件，文件名为空或 "-" 时使用标准输出
func create(name string) (io.WriteCloser, error) {
	if name == "" || name == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(name)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
