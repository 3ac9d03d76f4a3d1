package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"nfagent/internal/agent"
	"nfagent/internal/analysis"
	"nfagent/internal/dataset"
	"nfagent/internal/models"
)

// exitWord ends the terminal loop wherever a question is read.
const exitWord = "sair"

// runChat runs the interactive terminal menu until the user exits.
func runChat(ctx context.Context, ag *agent.Agent) error {
	reader := bufio.NewReader(os.Stdin)

	for {
		printMenu(ag.Store())

		choice, err := readLine(reader, "\nSelecione uma opção: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch strings.ToLower(choice) {
		case "1":
			loadFileInteractive(reader, ag.Store())
		case "2":
			removeFileInteractive(reader, ag.Store())
		case "3":
			printMetadata(ag.Store())
		case "4":
			predefinedMenu(ctx, reader, ag)
		case "5":
			customQuestion(ctx, reader, ag)
		case "6":
			exportInteractive(reader, ag.Store())
		case "7", exitWord:
			fmt.Println("\nEncerrando o sistema...")
			return nil
		default:
			fmt.Println("Opção inválida")
		}
	}
}

func printMenu(store *dataset.Store) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println(center("SISTEMA ESPECIALISTA EM NOTAS FISCAIS", 60))
	fmt.Println(strings.Repeat("=", 60))

	fmt.Println("\nARQUIVOS CARREGADOS:")
	names := store.Names()
	if len(names) == 0 {
		fmt.Println("(nenhum)")
	}
	current := store.CurrentName()
	for i, name := range names {
		marker := ""
		if name == current {
			marker = " (ATIVO)"
		}
		fmt.Printf("%d. %s%s\n", i+1, name, marker)
	}

	fmt.Println("\nMENU PRINCIPAL:")
	fmt.Println("1. Carregar arquivo")
	fmt.Println("2. Remover arquivo")
	fmt.Println("3. Visualizar metadados")
	fmt.Println("4. Perguntas pré-definidas")
	fmt.Println("5. Pergunta personalizada")
	fmt.Println("6. Exportar análise consolidada")
	fmt.Println("7. Sair")
}

func loadFileInteractive(reader *bufio.Reader, store *dataset.Store) {
	path, err := readLine(reader, "Digite o caminho do arquivo (ZIP/CSV): ")
	if err != nil || path == "" {
		return
	}
	names, err := store.LoadFile(path)
	if err != nil {
		fmt.Printf("Erro ao carregar arquivo: %v\n", err)
		return
	}
	fmt.Printf("Arquivo(s) carregado(s): %s\n", strings.Join(names, ", "))
}

func removeFileInteractive(reader *bufio.Reader, store *dataset.Store) {
	name, err := readLine(reader, "Nome do arquivo a remover: ")
	if err != nil || name == "" {
		return
	}
	if store.Remove(name) {
		fmt.Printf("Arquivo %s removido\n", name)
	} else {
		fmt.Println("Arquivo não encontrado")
	}
}

func printMetadata(store *dataset.Store) {
	meta := store.Metadata()
	if len(meta) == 0 {
		fmt.Println("Nenhum arquivo carregado")
		return
	}

	fmt.Println("\nMETADADOS DOS ARQUIVOS:")
	for _, m := range meta {
		fmt.Printf("\n%s\n", m.Name)
		fmt.Printf("  Registros: %d\n", m.Rows)
		fmt.Printf("  Colunas: %d\n", m.Columns)
		fmt.Printf("  Numéricas: %s\n", joinOrNone(m.NumericCols))
		fmt.Printf("  Texto: %s\n", joinOrNone(m.TextCols))
		fmt.Printf("  Datas: %s\n", joinOrNone(m.DateCols))
	}
}

func predefinedMenu(ctx context.Context, reader *bufio.Reader, ag *agent.Agent) {
	questions := analysis.Questions()
	fmt.Println("\nPERGUNTAS PRÉ-DEFINIDAS:")
	for i, q := range questions {
		fmt.Printf("%d. %s\n", i+1, q.Question)
	}

	choice, err := readLine(reader, "Selecione uma pergunta: ")
	if err != nil {
		return
	}
	idx := 0
	if _, err := fmt.Sscanf(choice, "%d", &idx); err != nil || idx < 1 || idx > len(questions) {
		fmt.Println("Opção inválida")
		return
	}
	askAndPrint(ctx, ag, questions[idx-1].Question)
}

func customQuestion(ctx context.Context, reader *bufio.Reader, ag *agent.Agent) {
	question, err := readLine(reader, "Digite sua pergunta: ")
	if err != nil || question == "" {
		return
	}
	if strings.EqualFold(question, exitWord) {
		return
	}
	askAndPrint(ctx, ag, question)
}

func askAndPrint(ctx context.Context, ag *agent.Agent, question string) {
	answer, err := ag.Ask(ctx, question)
	if err != nil {
		fmt.Printf("Erro: %v\n", err)
		return
	}

	fmt.Printf("\nRESPOSTA%s:\n%s\n", sourceTag(answer.Source), answer.Text)
}

func sourceTag(source models.AnswerSource) string {
	switch source {
	case models.SourceLocal:
		return " (análise local)"
	case models.SourceFallback:
		return " (resposta local - cota da API excedida)"
	}
	return ""
}

func exportInteractive(reader *bufio.Reader, store *dataset.Store) {
	defaultPath := fmt.Sprintf("analise_consolidada_%s.csv", time.Now().Format("20060102"))
	path, err := readLine(reader, fmt.Sprintf("Arquivo de saída [%s]: ", defaultPath))
	if err != nil {
		return
	}
	if path == "" {
		path = defaultPath
	}
	if err := store.ExportCSV(path); err != nil {
		fmt.Printf("Erro ao exportar: %v\n", err)
		return
	}
	fmt.Printf("Análise exportada para %s\n", path)
}

func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(nenhuma)"
	}
	return strings.Join(items, ", ")
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
