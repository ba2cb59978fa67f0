package reporter

import (
	"encoding/json"
	"fmt"
	"strconv"

	"itassets/internal/app/pipeline"
	assetmodel "itassets/internal/model/asset"
	"itassets/internal/service/asset/etl"
	"itassets/internal/service/asset/indexer"

	"github.com/pterm/pterm"
)

// ConsoleReporter 控制台输出
type ConsoleReporter struct{}

func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// PrintCleanReport 输出清洗统计
func (r *ConsoleReporter) PrintCleanReport(report *etl.CleanReport) {
	if report == nil {
		return
	}
	pterm.Success.Printf("Cleaned %s -> %s\n", report.InputPath, report.OutputPath)
	_ = r.printKeyValues([][]string{
		{"Input rows", strconv.Itoa(report.InputRows)},
		{"Output rows", strconv.Itoa(report.OutputRows)},
		{"Duplicates removed", strconv.Itoa(report.DuplicatesFound)},
		{"Cells filled with Unknown", strconv.Itoa(report.FilledCells)},
		{"Invalid dates", strconv.Itoa(report.InvalidDates)},
	})
}

// PrintResult 输出流水线运行结果和最终摘要
func (r *ConsoleReporter) PrintResult(result *pipeline.Result) {
	if result == nil {
		return
	}
	r.PrintCleanReport(result.Clean)

	pterm.Info.Printf("Stored %d rows (%d high risk)\n", result.Stored, result.HighRisk)

	if result.Degraded != nil {
		pterm.Warning.Printf("Indexing skipped: %v\n", result.Degraded)
	}
	if result.Index != nil {
		pterm.Info.Printf("Indexed %d documents into %s, %d failed\n",
			result.Index.Succeeded, result.Index.Index, result.Index.Failed)
		for _, msg := range result.Index.Errors {
			pterm.Error.Println(msg)
		}
	}

	if result.Mode == pipeline.ModeFullyIndexed {
		pterm.Success.Println(result.Summary())
	} else {
		pterm.Warning.Println(result.Summary())
	}
}

// PrintAssets 以表格形式输出关系库中的资产
func (r *ConsoleReporter) PrintAssets(assets []assetmodel.ITAsset) error {
	if len(assets) == 0 {
		pterm.Warning.Println("No rows in it_assets.")
		return nil
	}

	rows := make([][]string, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, a.Values())
	}
	if err := r.printTableFromData(assetmodel.CanonicalColumns, rows); err != nil {
		return err
	}
	pterm.Info.Printf("%d rows\n", len(assets))
	return nil
}

// PrintVerifyReport 输出索引核对结果
func (r *ConsoleReporter) PrintVerifyReport(report *indexer.VerifyReport) error {
	if report == nil {
		return nil
	}

	if !report.Exists {
		pterm.Warning.Printf("Index %s does not exist\n", report.Index)
		pterm.Info.Println("Available indices:")
		return r.printIndices(report.Indices)
	}

	pterm.Success.Printf("Index %s exists with %d documents\n", report.Index, report.Count)
	if report.Sample != nil {
		sample, err := json.MarshalIndent(report.Sample, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode sample document: %w", err)
		}
		pterm.Info.Println("Sample document:")
		pterm.Println(string(sample))
	}
	return r.printIndices(report.Indices)
}

func (r *ConsoleReporter) printIndices(indices []indexer.IndexInfo) error {
	if len(indices) == 0 {
		pterm.Warning.Println("No indices found.")
		return nil
	}
	rows := make([][]string, 0, len(indices))
	for _, info := range indices {
		rows = append(rows, []string{info.Name, info.Health, info.Status, info.DocsCount})
	}
	return r.printTableFromData([]string{"index", "health", "status", "docs.count"}, rows)
}

func (r *ConsoleReporter) printKeyValues(pairs [][]string) error {
	return r.printTableFromData([]string{"Metric", "Value"}, pairs)
}

func (r *ConsoleReporter) printTableFromData(headers []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	// 使用 pterm 渲染表格
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)

	err := pterm.DefaultTable.
		WithHasHeader(true).
		WithBoxed(false).
		WithData(tableData).
		Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
