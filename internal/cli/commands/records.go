package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"PassVault/internal/cli/model"
	"PassVault/internal/config"
)

// parseFlags разбирает флаги подкоманды. Ошибка разбора превращается в ErrUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	return nil
}

// setFlags возвращает значения только явно переданных флагов.
func setFlags(fs *flag.FlagSet) map[string]*string {
	out := map[string]*string{}
	fs.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		out[f.Name] = &v
	})
	return out
}

func printRecord(w io.Writer, rec model.Record) {
	fmt.Fprintf(w, "- %s  [%s]\n", rec.ID, rec.RecordType)
	field := func(name string, v *string) {
		if v != nil {
			fmt.Fprintf(w, "    %-9s %s\n", name+":", *v)
		}
	}
	field("service", rec.Service)
	field("email", rec.Email)
	field("username", rec.Username)
	field("password", rec.Password)
	field("key", rec.Key)
	field("secret", rec.Secret)
	fmt.Fprintf(w, "    %-9s %s\n", "updated:", rec.UpdatedAt)
}

func printRecords(w io.Writer, recs []model.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "Нет записей")
		return
	}
	for _, rec := range recs {
		printRecord(w, rec)
	}
	fmt.Fprintf(w, "Всего: %d\n", len(recs))
}

type addPasswordCmd struct{}

func (addPasswordCmd) Name() string        { return "add-password" }
func (addPasswordCmd) Description() string { return "Добавить пароль к сервису" }
func (addPasswordCmd) Usage() string {
	return "add-password [-email E] [-username U] <service> <password>"
}

func (c addPasswordCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	fs.String("email", "", "email учётной записи")
	fs.String("username", "", "имя пользователя")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return ErrUsage
	}
	set := setFlags(fs)
	in := model.RecordInput{
		Service:  &fs.Args()[0],
		Password: &fs.Args()[1],
		Email:    set["email"],
		Username: set["username"],
	}
	return createRecord(ctx, cfg, in)
}

type addSecretCmd struct{}

func (addSecretCmd) Name() string        { return "add-secret" }
func (addSecretCmd) Description() string { return "Добавить секрет по ключу" }
func (addSecretCmd) Usage() string       { return "add-secret <key> <secret>" }

func (addSecretCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	return createRecord(ctx, cfg, model.RecordInput{Key: &args[0], Secret: &args[1]})
}

func createRecord(ctx context.Context, cfg *config.Config, in model.RecordInput) error {
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	id, err := c.CreateRecord(ctx, in)
	if err != nil {
		return explain(err)
	}
	fmt.Fprintf(Out, "Created: %s\n", id)
	return nil
}

type recordsCmd struct{}

func (recordsCmd) Name() string        { return "records" }
func (recordsCmd) Description() string { return "Показать все записи" }
func (recordsCmd) Usage() string       { return "records" }

func (recordsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	recs, err := c.ListRecords(ctx)
	if err != nil {
		return explain(err)
	}
	printRecords(Out, recs)
	return nil
}

type recordCmd struct{}

func (recordCmd) Name() string        { return "record" }
func (recordCmd) Description() string { return "Показать запись по id" }
func (recordCmd) Usage() string       { return "record <id>" }

func (recordCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	rec, err := c.GetRecord(ctx, args[0])
	if err != nil {
		return explain(err)
	}
	printRecord(Out, *rec)
	return nil
}

type editCmd struct{}

func (editCmd) Name() string        { return "edit" }
func (editCmd) Description() string { return "Изменить поля записи" }
func (editCmd) Usage() string {
	return "edit [-service S] [-email E] [-username U] [-password P] [-key K] [-secret S] <id>"
}

func (c editCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	for _, name := range []string{"service", "email", "username", "password", "key", "secret"} {
		fs.String(name, "", name)
	}
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return ErrUsage
	}
	set := setFlags(fs)
	in := model.RecordInput{
		Service:  set["service"],
		Email:    set["email"],
		Username: set["username"],
		Password: set["password"],
		Key:      set["key"],
		Secret:   set["secret"],
	}
	if in.Empty() {
		return ErrUsage
	}

	client, err := authedClient(cfg)
	if err != nil {
		return err
	}
	if err := client.UpdateRecord(ctx, fs.Arg(0), in); err != nil {
		return explain(err)
	}
	fmt.Fprintln(Out, "Updated")
	return nil
}

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Удалить запись" }
func (deleteCmd) Usage() string       { return "delete <id>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	if err := c.DeleteRecord(ctx, args[0]); err != nil {
		return explain(err)
	}
	fmt.Fprintln(Out, "Deleted")
	return nil
}

type searchCmd struct{}

func (searchCmd) Name() string        { return "search" }
func (searchCmd) Description() string { return "Искать записи" }
func (searchCmd) Usage() string {
	return "search [-q Q] [-service S] [-key K] [-type password|secret] [-page N] [-limit N]"
}

func (c searchCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	var p model.SearchParams
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	fs.StringVar(&p.Query, "q", "", "подстрока в service или key")
	fs.StringVar(&p.Service, "service", "", "подстрока в service")
	fs.StringVar(&p.Key, "key", "", "подстрока в key")
	fs.StringVar(&p.Type, "type", "", "тип записи")
	fs.IntVar(&p.Page, "page", 0, "номер страницы с нуля")
	fs.IntVar(&p.Limit, "limit", 0, "размер страницы")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 || p.Page < 0 || p.Limit < 0 {
		return ErrUsage
	}

	client, err := authedClient(cfg)
	if err != nil {
		return err
	}
	recs, err := client.Search(ctx, p)
	if err != nil {
		return explain(err)
	}
	printRecords(Out, recs)
	return nil
}

func init() {
	RegisterCmd(addPasswordCmd{})
	RegisterCmd(addSecretCmd{})
	RegisterCmd(recordsCmd{})
	RegisterCmd(recordCmd{})
	RegisterCmd(editCmd{})
	RegisterCmd(deleteCmd{})
	RegisterCmd(searchCmd{})
}
