package config

// EncryptedERCABI is the ABI of the encrypted token contract, covering the
// read surface the SDK consumes and the write surface it packs calldata
// for. The tuple layouts are fixed by the deployed contracts and must be
// reproduced bit-for-bit.
const EncryptedERCABI = `[
  {"type":"function","name":"getUserPublicKey","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"publicKey","type":"uint256[2]"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[
    {"name":"eGCT","type":"tuple","components":[
      {"name":"c1","type":"tuple","components":[{"name":"x","type":"uint256"},{"name":"y","type":"uint256"}]},
      {"name":"c2","type":"tuple","components":[{"name":"x","type":"uint256"},{"name":"y","type":"uint256"}]}]},
    {"name":"nonce","type":"uint256"},
    {"name":"amountPCTs","type":"tuple[]","components":[{"name":"pct","type":"uint256[7]"},{"name":"index","type":"uint256"}]},
    {"name":"balancePCT","type":"uint256[7]"}]},
  {"type":"function","name":"getBalanceFromTokenAddress","stateMutability":"view","inputs":[{"name":"user","type":"address"},{"name":"tokenAddress","type":"address"}],"outputs":[
    {"name":"eGCT","type":"tuple","components":[
      {"name":"c1","type":"tuple","components":[{"name":"x","type":"uint256"},{"name":"y","type":"uint256"}]},
      {"name":"c2","type":"tuple","components":[{"name":"x","type":"uint256"},{"name":"y","type":"uint256"}]}]},
    {"name":"nonce","type":"uint256"},
    {"name":"amountPCTs","type":"tuple[]","components":[{"name":"pct","type":"uint256[7]"},{"name":"index","type":"uint256"}]},
    {"name":"balancePCT","type":"uint256[7]"}]},
  {"type":"function","name":"auditorPublicKey","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256[2]"}]},
  {"type":"function","name":"auditor","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"tokenIds","stateMutability":"view","inputs":[{"name":"tokenAddress","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"isConverter","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"registrar","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"register","stateMutability":"nonpayable","inputs":[
    {"name":"proof","type":"tuple","components":[
      {"name":"proofPoints","type":"tuple","components":[{"name":"a","type":"uint256[2]"},{"name":"b","type":"uint256[2][2]"},{"name":"c","type":"uint256[2]"}]},
      {"name":"publicSignals","type":"uint256[5]"}]}],"outputs":[]},
  {"type":"function","name":"privateMint","stateMutability":"nonpayable","inputs":[
    {"name":"user","type":"address"},
    {"name":"proof","type":"tuple","components":[
      {"name":"proofPoints","type":"tuple","components":[{"name":"a","type":"uint256[2]"},{"name":"b","type":"uint256[2][2]"},{"name":"c","type":"uint256[2]"}]},
      {"name":"publicSignals","type":"uint256[24]"}]},
    {"name":"message","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[
    {"name":"to","type":"address"},
    {"name":"tokenId","type":"uint256"},
    {"name":"proof","type":"tuple","components":[
      {"name":"proofPoints","type":"tuple","components":[{"name":"a","type":"uint256[2]"},{"name":"b","type":"uint256[2][2]"},{"name":"c","type":"uint256[2]"}]},
      {"name":"publicSignals","type":"uint256[32]"}]},
    {"name":"balancePCT","type":"uint256[7]"},
    {"name":"message","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[
    {"name":"tokenId","type":"uint256"},
    {"name":"proof","type":"tuple","components":[
      {"name":"proofPoints","type":"tuple","components":[{"name":"a","type":"uint256[2]"},{"name":"b","type":"uint256[2][2]"},{"name":"c","type":"uint256[2]"}]},
      {"name":"publicSignals","type":"uint256[16]"}]},
    {"name":"balancePCT","type":"uint256[7]"},
    {"name":"message","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"privateBurn","stateMutability":"nonpayable","inputs":[
    {"name":"proof","type":"tuple","components":[
      {"name":"proofPoints","type":"tuple","components":[{"name":"a","type":"uint256[2]"},{"name":"b","type":"uint256[2][2]"},{"name":"c","type":"uint256[2]"}]},
      {"name":"publicSignals","type":"uint256[19]"}]},
    {"name":"balancePCT","type":"uint256[7]"},
    {"name":"message","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[
    {"name":"amount","type":"uint256"},
    {"name":"tokenAddress","type":"address"},
    {"name":"amountPCT","type":"uint256[7]"},
    {"name":"message","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"setAuditorPublicKey","stateMutability":"nonpayable","inputs":[{"name":"user","type":"address"}],"outputs":[]},
  {"type":"event","name":"PrivateMint","inputs":[
    {"name":"user","type":"address","indexed":true},
    {"name":"auditorPCT","type":"uint256[7]","indexed":false},
    {"name":"auditorAddress","type":"address","indexed":true}],"anonymous":false},
  {"type":"event","name":"PrivateTransfer","inputs":[
    {"name":"from","type":"address","indexed":true},
    {"name":"to","type":"address","indexed":true},
    {"name":"auditorPCT","type":"uint256[7]","indexed":false},
    {"name":"auditorAddress","type":"address","indexed":true}],"anonymous":false},
  {"type":"event","name":"PrivateBurn","inputs":[
    {"name":"user","type":"address","indexed":true},
    {"name":"auditorPCT","type":"uint256[7]","indexed":false},
    {"name":"auditorAddress","type":"address","indexed":true}],"anonymous":false},
  {"type":"event","name":"PrivateMessage","inputs":[
    {"name":"to","type":"address","indexed":true},
    {"name":"from","type":"address","indexed":true},
    {"name":"metadata","type":"tuple","indexed":false,"components":[
      {"name":"messageFrom","type":"address"},
      {"name":"messageTo","type":"address"},
      {"name":"messageType","type":"uint8"},
      {"name":"encryptedMsg","type":"bytes"}]}],"anonymous":false}
]`

// ERC20ABI covers the slice of the underlying token the SDK reads in
// converter mode.
const ERC20ABI = `[
  {"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`
